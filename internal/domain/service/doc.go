// Package service provides the registry that routes front end commands to
// providers.
//
// Each provider publishes a service definition listing its tools. A tool
// has a dotted id ("notes.read") and the command name the front end
// invokes ("read_note"); the registry resolves either form.
package service
