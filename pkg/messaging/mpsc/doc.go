/*
Package mpsc provides an unbounded, blocking, multi-producer channel with
reference-counted endpoints.

A channel is one shared FIFO guarded by a single mutex and condition
variable. Producers hold Sender handles and consumers hold Receiver handles;
both can be cloned. The channel stays open while at least one Sender is
open and closes, permanently, when the last Sender is closed.

Basic Usage:

	tx, rx := mpsc.New[string]()

	go func() {
		defer tx.Close()
		tx.Send("hello")
		tx.Send("world")
	}()

	for msg := range rx.All() {
		fmt.Println(msg)
	}

Sending:

Send never blocks and never fails. Values sent while no Receiver is left are
simply queued. Each Send wakes one parked receiver.

Fan-in:

	tx, rx := mpsc.New[Event]()
	for _, src := range sources {
		go produce(src, tx.Clone()) // each producer closes its clone
	}
	tx.Close() // the channel now closes when the last producer finishes

Receiving:

Recv blocks while the channel is empty and a Sender is open. It returns
ok == false once every Sender is closed and nothing is left to deliver, and
keeps returning false after that. RecvContext adds cancellation:

	v, err := rx.RecvContext(ctx)
	switch {
	case errors.Is(err, mpsc.ErrClosed):
		// all senders gone
	case err != nil:
		// ctx ended
	}

Staging Buffer:

When a Recv pops a value and more remain, the receiver swaps the whole
remaining queue into a private staging buffer in O(1). Subsequent calls on
that receiver are served without touching the lock until the buffer is
exhausted. Delivery order is unchanged. Because a receiver takes the whole
backlog, set Config.DisableStaging when several receivers should share work:

	tx, rx := mpsc.NewWithConfig[Job](mpsc.Config{DisableStaging: true})

Handles:

Every Sender and Receiver must be closed exactly once; Close on a closed
handle is a no-op. Send or Clone on a closed Sender panics, like sending on
a closed built-in channel. A Receiver is owned by one goroutine at a time;
a Sender may be shared.

Observability:

Stats reports send/receive totals, queue and staging sizes, live handle
counts, lock acquisitions and swaps. Config.Metrics exports the same data to
Prometheus and Config.Logger receives lifecycle events.
*/
package mpsc
