// Package ecs provides ECS adapters for showreel.
package ecs

import (
	"github.com/phanxgames/showreel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StageEventType is the Donburi event type for showreel stage events.
// Subscribe to this in your ECS systems to react to scene lifecycle changes,
// transition phases and anchor steps.
var StageEventType = events.NewEventType[showreel.StageEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Stage events are published to StageEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) showreel.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event showreel.StageEvent) {
	StageEventType.Publish(s.world, event)
}
