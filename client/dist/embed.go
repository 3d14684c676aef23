// Package clientdist embeds the browser client served by the live server.
package clientdist

import _ "embed"

// FuseJS is the thin client that mirrors a live session document in the
// browser and forwards user events back over the websocket.
//
// It is served at "/_fuse/client.js".
//
//go:embed fuse.js
var FuseJS []byte
