// Package input maps viewport keyboard and pointer events onto store
// operations.
//
// In edit mode keys are matched against the shortcut table and clicks
// drive selection. In play mode both are routed to the interaction engine
// instead: pointer events trigger the rules of the object under the
// pointer, key events trigger the key rules of every object that has an
// interaction record.
//
// Key names are matched case-sensitively against rule bindings. Shortcut
// letters are matched case-insensitively, so Shift+Ctrl+Z arrives as "Z"
// and still means redo.
//
// While a text input has focus only undo and redo are handled.
package input
