// Package live serves fuse applications to browsers.
//
// Every websocket connection gets a Session with its own reactive
// Runtime, dom.Document, render.Renderer and router.Router. The router
// starts at the page URL the client connects with. The session mounts the App
// into the document body, sends the tree as an init frame and then, for
// every client event, dispatches the event into the document and sends
// the resulting connected mutations as one patch frame.
//
// # Wire Protocol
//
// Frames are JSON text messages:
//
//	server -> client  {"t":"init","tree":Node}
//	server -> client  {"t":"patch","ops":[Op, ...]}
//	server -> client  {"t":"error","code":"E061","msg":"..."}
//	server -> client  {"t":"navigate","url":"/users/1","replace":false,"delta":0}
//	client -> server  {"t":"event","id":12,"type":"input","value":"hi"}
//	client -> server  {"t":"navigate","url":"/users"}
//
// A router navigation is sent after the patch it caused; the client
// pushes or replaces the history entry, or moves delta entries. When the
// browser moves through its history itself, the client reports the new
// location and the router adopts it.
//
// The client reports the state it already shows (value, checked,
// scrollTop) with the event. The session writes that state into the
// document before dispatching, without echoing it back.
//
// # Concurrency
//
// A reader goroutine decodes frames into a channel. The session loop is
// the only goroutine that touches the runtime, document and renderer.
package live
