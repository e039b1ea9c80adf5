// Package notify posts run events to a chat channel.
//
// Every message starts with a [dd/MM/yyyy|HH:mm] timestamp followed by " -- ".
// A run posts one message per settled download, or a single error message
// when the run aborts. Delivery problems never fail the run.
package notify
