// Package ecs provides ECS adapters for showreel's stage events.
//
// The primary adapter is [NewDonburiSink], which bridges stage events (scene
// state changes, transition phases, anchor steps, failed switches) into a
// [Donburi] world as typed events. Subscribe to [StageEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetEventSink(sink)
//
// The stage hands events to the sink from its Update, so publishing always
// happens on the game loop. Deliver them with ProcessEvents in your systems.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
