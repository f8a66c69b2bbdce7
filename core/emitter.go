package session

import "github.com/koscakluka/parley-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts RunOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.ConnectionStateChanged:
			if opts.onConnectionStateChanged != nil {
				opts.onConnectionStateChanged(typedEvent.State)
			}
		}
	}
}
