/*
Package goprim provides concurrency and ownership primitives for Go
applications, centered on an unbounded multi-producer channel.

Messaging (pkg/messaging):
  - mpsc: Unbounded channel with reference-counted Sender and Receiver handles
  - bridge: Relay a channel through a Redis list

Task Scheduling (pkg/scheduling):
  - workerpool: Background task processing over mpsc channels
  - scheduler: Cron jobs producing values into a channel

Ownership (pkg/ownership):
  - box: Single owner with an explicit release
  - cell: Copy-in, copy-out mutable slot
  - rc: Reference-counted handle with a release hook
  - refcell: Run-time checked shared and exclusive borrows

Locking and Iteration:
  - locking/spin: Spin lock and a value-guarding spin mutex
  - iteration/flatten: Double-ended flattening iterator

Example usage:

	import "github.com/vnykmshr/goprim/pkg/messaging/mpsc"

	tx, rx := mpsc.New[string]()
	for _, name := range []string{"a", "b"} {
		go func(tx *mpsc.Sender[string]) {
			defer tx.Close()
			tx.Send(name)
		}(tx.Clone())
	}
	tx.Close()

	for msg := range rx.All() {
		fmt.Println(msg)
	}
*/
package goprim
