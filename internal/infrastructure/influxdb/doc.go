// Package influxdb records editor telemetry in InfluxDB.
//
// Two measurements are written:
//
//	interaction_actions  one point per executed interaction action
//	                     tags: action_type, source_object_id, target_object_id, rule_id
//	                     fields: delay_ms, action_id, cross, target_state_id
//	scene_changes        one point per committed store mutation
//	                     tags: op   fields: slices
//
// Writes are batched and non-blocking. Telemetry is optional; Connect
// returns ErrDisabled when influxdb.enabled is false and the editor runs
// without it.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	st.Engine().AddRecorder(influxdb.NewActionRecorder(client))
package influxdb
