// Package obsws is a client for the OBS Studio WebSocket API (protocol 4.x).
//
// A [Client] owns a single WebSocket connection to OBS and multiplexes all
// traffic over it: every request is tagged with a unique message identifier,
// and a single reader goroutine routes each inbound message either to the
// request that is waiting for it or, for unsolicited event messages, to the
// registered event handlers.
//
// # Thread Safety
//
// [Client] is safe for concurrent use. Any number of requests may be in
// flight at once; responses are matched by identifier, so arrival order does
// not matter.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	client, err := obsws.Connect(ctx, "localhost:4444", obsws.WithPassword("secret"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.OnEvent(func(c *obsws.Client, ev obsws.Event) {
//		fmt.Println("event:", ev.Type)
//	})
//
//	if err := client.SetCurrentScene(ctx, "Live"); err != nil {
//		log.Fatal(err)
//	}
//
// Blocking calls take a context; cancel it to abandon a wait. An abandoned
// response is dropped when it eventually arrives, which is safe because
// identifiers are never reused.
package obsws
