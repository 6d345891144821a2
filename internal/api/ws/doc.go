/*
Package ws serves the live editor config channel.

A client keeps one connection open while a user edits widget properties and
sends a message for every change:

	{"type": "visible_keys", "id": "42", "content": "...", "values": {...}, "widget": {...}}

Each message is answered with a "result" or "error" reply carrying the same
id. "ping" is answered with "pong". Every connection is tagged with a UUID in
the logs.
*/
package ws
