// Package scene defines the host collaborators the area search pipeline talks to.
//
// The viewer engine owns the scene object registry, the agent's current region,
// the message transport used to request object properties, the name-resolution
// cache and the world tracker. This package models each of them as a small
// interface so the search session can be driven by a real host or by the
// in-memory Simulator:
//   - Registry enumerates scene objects and their flags
//   - Agent reports the region the user is in
//   - Transport sends "request object properties family" messages
//   - NameCache resolves owner and group display names asynchronously
//   - Tracker points the user at an object in the world
//
// Asynchronous results are never delivered by callback. A host publishes them
// as Events on a channel, and the consumer feeds them into its event loop.
package scene
