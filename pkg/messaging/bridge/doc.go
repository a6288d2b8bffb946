/*
Package bridge relays mpsc channels through a Redis list.

Forward drains a Receiver into the list with RPUSH, batching values that are
already waiting. Feed pops the list with BLPOP and sends each value on a
Sender it owns, closing it when feeding stops. Together they carry a
channel's values between processes in order:

	// producer process
	b, _ := bridge.New[Order](rdb, "orders")
	go b.Forward(ctx, rx)

	// consumer process
	b, _ := bridge.New[Order](rdb, "orders")
	tx, rx := mpsc.New[Order]()
	go b.Feed(ctx, tx)
	for order := range rx.All() {
		handle(order)
	}

Values are JSON by default; pass another Codec to NewWithConfig. Any
redis.UniversalClient satisfies Client.
*/
package bridge
