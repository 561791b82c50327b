package sat

import "fmt"

func Example_newRing() {
	q := newRing[int](2)

	fmt.Println(q)

	q.Push(1)
	q.Push(2)

	fmt.Println(q)

	// Output:
	// ring[]
	// ring[1 2]
}

func Example_ringFull() {
	q := newRing[int](2)

	fmt.Println(q.Full())
	q.Push(1)
	fmt.Println(q.Full())
	q.Push(2)
	fmt.Println(q.Full())

	// Output:
	// false
	// false
	// true
}

func Example_ringLen() {
	q := newRing[int](4)

	fmt.Println(q.Len())
	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.Push(4)
	q.Push(5) // evicts 1, since logical capacity is 4
	fmt.Println(q.Len())

	// Output:
	// 0
	// 4
}

func Example_ringClear() {
	q := newRing[int](4)

	q.Push(1)
	q.Push(2)
	q.Clear()

	fmt.Println(q)

	// Output:
	// ring[]
}

func Example_ringPush() {
	q := newRing[int](3)

	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.Push(4) // evicts 1

	fmt.Println(q)

	// Output:
	// ring[2 3 4]
}

func Example_ringPushEviction() {
	q := newRing[int](2)

	q.Push(1)
	_, ok := q.Push(2)
	fmt.Println(ok)
	evicted, ok := q.Push(3)
	fmt.Println(evicted, ok)

	// Output:
	// false
	// 1 true
}
