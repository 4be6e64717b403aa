package posixmq

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"
	"testing"
	"time"
)

// requireMessageQueues skips the test on hosts where the native queue
// syscalls are not available.
func requireMessageQueues(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" || !strings.HasSuffix(runtime.GOARCH, "64") {
		t.Skipf(
			"POSIX message queues require 64-bit Linux, skipping on %s/%s",
			runtime.GOOS, runtime.GOARCH,
		)
	}
}

// testQueueName returns a fresh queue name and schedules its unlinking.
func testQueueName(t *testing.T) string {
	t.Helper()
	name := fmt.Sprintf("/test-mq-%d", rand.Uint64())
	t.Cleanup(func() {
		Unlink(name)
	})
	return name
}

// openForTest opens a fresh read-write queue with the given attributes and
// schedules its cleanup.
func openForTest(t *testing.T, attributes Attributes) *Queue {
	t.Helper()
	queue := New()
	name := testQueueName(t)
	if rc := queue.Open(name, ReadWrite(), CreateOnly(0), attributes); rc != OpenSuccess {
		t.Fatalf("unable to open queue %q: %v", name, rc)
	}
	t.Cleanup(func() {
		queue.Close()
	})
	return queue
}

func TestQueueLifecycle(t *testing.T) {
	requireMessageQueues(t)

	queue := New()
	if queue.IsOpen() {
		t.Error("a new queue handle must be closed")
	}
	if queue.Name() != "" {
		t.Errorf("a closed handle's name must be empty, got %q", queue.Name())
	}

	name := testQueueName(t)
	if rc := queue.Open(name, ReadWrite(), OpenOrCreate(0), Attributes{}); rc != OpenSuccess {
		t.Fatalf("open failed: %v", rc)
	}
	if !queue.IsOpen() {
		t.Error("the handle must be open after a successful open")
	}
	if queue.Name() != name {
		t.Errorf("name = %q, want %q", queue.Name(), name)
	}
	if queue.MaxMessageSize() <= 0 {
		t.Errorf("max message size = %d, want positive", queue.MaxMessageSize())
	}

	if rc := queue.Close(); rc != CloseSuccess {
		t.Errorf("close failed: %v", rc)
	}
	if queue.IsOpen() {
		t.Error("the handle must be closed after close")
	}
	if queue.Name() != "" {
		t.Errorf("a closed handle's name must be empty, got %q", queue.Name())
	}

	// close is idempotent
	if rc := queue.Close(); rc != CloseClosed {
		t.Errorf("second close = %v, want CloseClosed", rc)
	}
}

func TestOpenOnlyMissingQueue(t *testing.T) {
	requireMessageQueues(t)

	queue := New()
	rc := queue.Open(testQueueName(t), ReadOnly(), OpenOnly(), Attributes{})
	if rc != OpenDoesNotExist {
		t.Errorf("open-only of a missing queue = %v, want OpenDoesNotExist", rc)
	}
	if queue.IsOpen() {
		t.Error("the handle must remain closed after a failed open")
	}
}

func TestCreateOnlyCollision(t *testing.T) {
	requireMessageQueues(t)

	name := testQueueName(t)
	first := New()
	if rc := first.Open(name, ReadWrite(), CreateOnly(0), Attributes{}); rc != OpenSuccess {
		t.Fatalf("first open failed: %v", rc)
	}
	defer first.Close()

	second := New()
	if rc := second.Open(name, ReadWrite(), CreateOnly(0), Attributes{}); rc != OpenAlreadyExists {
		t.Errorf("create-only of an existing queue = %v, want OpenAlreadyExists", rc)
	}
}

func TestOpenInvalidArguments(t *testing.T) {
	requireMessageQueues(t)

	t.Run("zero-open-mode", func(t *testing.T) {
		queue := New()
		var zero OpenMode
		if rc := queue.Open(testQueueName(t), zero, OpenOrCreate(0), Attributes{}); rc != OpenInvalidParameter {
			t.Errorf("open with zero OpenMode = %v, want OpenInvalidParameter", rc)
		}
	})

	t.Run("zero-create-mode", func(t *testing.T) {
		queue := New()
		var zero CreateMode
		if rc := queue.Open(testQueueName(t), ReadWrite(), zero, Attributes{}); rc != OpenInvalidParameter {
			t.Errorf("open with zero CreateMode = %v, want OpenInvalidParameter", rc)
		}
	})

	t.Run("name-without-slash", func(t *testing.T) {
		queue := New()
		if rc := queue.Open("no-leading-slash", ReadWrite(), OpenOrCreate(0), Attributes{}); rc != OpenInvalidParameter {
			t.Errorf("open without a leading slash = %v, want OpenInvalidParameter", rc)
		}
	})

	t.Run("nonpositive-attribute", func(t *testing.T) {
		queue := New()
		attrs := Attributes{MaxMessages: Exactly(-1)}
		if rc := queue.Open(testQueueName(t), ReadWrite(), CreateOnly(0), attrs); rc != OpenInvalidParameter {
			t.Errorf("open with a negative attribute = %v, want OpenInvalidParameter", rc)
		}
	})
}

func TestSendReceiveRoundTrip(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{})

	payload := []byte("hello, world!")
	if rc := queue.Send(payload, 3); rc != SendSuccess {
		t.Fatalf("send failed: %v", rc)
	}

	var output []byte
	var priority uint
	if rc := queue.Receive(&output, &priority); rc != ReceiveSuccess {
		t.Fatalf("receive failed: %v", rc)
	}
	if !bytes.Equal(output, payload) {
		t.Errorf("received %q, want %q", output, payload)
	}
	if priority != 3 {
		t.Errorf("received priority %d, want 3", priority)
	}
}

func TestReceiveShrinksOutput(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{})

	if rc := queue.Send([]byte("abc"), 0); rc != SendSuccess {
		t.Fatalf("send failed: %v", rc)
	}

	output := make([]byte, 10000)
	if rc := queue.Receive(&output, nil); rc != ReceiveSuccess {
		t.Fatalf("receive failed: %v", rc)
	}
	if string(output) != "abc" {
		t.Errorf("received %q, want %q", output, "abc")
	}
}

func TestPriorityOrdering(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{})

	sends := []struct {
		payload  string
		priority uint
	}{
		{"a", 0},
		{"b", 5},
		{"c", 2},
	}
	for _, send := range sends {
		if rc := queue.Send([]byte(send.payload), send.priority); rc != SendSuccess {
			t.Fatalf("send %q failed: %v", send.payload, rc)
		}
	}

	var received []string
	for range sends {
		var output []byte
		if rc := queue.Receive(&output, nil); rc != ReceiveSuccess {
			t.Fatalf("receive failed: %v", rc)
		}
		received = append(received, string(output))
	}

	expected := []string{"b", "c", "a"}
	for i := range expected {
		if received[i] != expected[i] {
			t.Fatalf("received %v, want %v", received, expected)
		}
	}
}

func TestNonBlocking(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{MaxMessages: Exactly(1)})

	if rc := queue.SetNonBlocking(true); rc != SetNonBlockingSuccess {
		t.Fatalf("set non-blocking failed: %v", rc)
	}
	// no-op when already in the requested mode
	if rc := queue.SetNonBlocking(true); rc != SetNonBlockingSuccess {
		t.Fatalf("repeated set non-blocking failed: %v", rc)
	}

	var output []byte
	if rc := queue.Receive(&output, nil); rc != ReceiveEmpty {
		t.Errorf("non-blocking receive on an empty queue = %v, want ReceiveEmpty", rc)
	}

	if rc := queue.Send([]byte("x"), 0); rc != SendSuccess {
		t.Fatalf("send failed: %v", rc)
	}
	if rc := queue.Send([]byte("y"), 0); rc != SendFull {
		t.Errorf("non-blocking send to a full queue = %v, want SendFull", rc)
	}
}

func TestSetNonBlockingClosedHandle(t *testing.T) {
	queue := New()
	if rc := queue.SetNonBlocking(true); rc != SetNonBlockingClosed {
		t.Errorf("set non-blocking on a closed handle = %v, want SetNonBlockingClosed", rc)
	}
}

func TestDeadlineInThePast(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{MaxMessages: Exactly(1)})
	past := time.Now().Add(-time.Second)

	var output []byte
	if rc := queue.ReceiveDeadline(&output, past, nil); rc != ReceiveTimedOut {
		t.Errorf("receive with a past deadline on an empty queue = %v, want ReceiveTimedOut", rc)
	}

	if rc := queue.Send([]byte("x"), 0); rc != SendSuccess {
		t.Fatalf("send failed: %v", rc)
	}
	if rc := queue.SendDeadline([]byte("y"), past, 0); rc != SendTimedOut {
		t.Errorf("send with a past deadline to a full queue = %v, want SendTimedOut", rc)
	}
}

func TestReceiveDeadlineExpires(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{})

	begin := time.Now()
	deadline := begin.Add(50 * time.Millisecond)
	var output []byte
	if rc := queue.ReceiveDeadline(&output, deadline, nil); rc != ReceiveTimedOut {
		t.Fatalf("receive = %v, want ReceiveTimedOut", rc)
	}
	if elapsed := time.Since(begin); elapsed < 40*time.Millisecond {
		t.Errorf("receive returned after %v, before the deadline", elapsed)
	}
}

func TestMessageTooLarge(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{MaxMessageSize: Exactly(16)})

	if size := queue.MaxMessageSize(); size != 16 {
		t.Fatalf("max message size = %d, want 16", size)
	}
	payload := bytes.Repeat([]byte("x"), 32)
	if rc := queue.Send(payload, 0); rc != SendMessageTooLarge {
		t.Errorf("oversized send = %v, want SendMessageTooLarge", rc)
	}
}

func TestWrongMode(t *testing.T) {
	requireMessageQueues(t)

	name := testQueueName(t)

	writer := New()
	if rc := writer.Open(name, WriteOnly(), CreateOnly(0), Attributes{}); rc != OpenSuccess {
		t.Fatalf("open for writing failed: %v", rc)
	}
	defer writer.Close()

	var output []byte
	if rc := writer.Receive(&output, nil); rc != ReceiveWrongMode {
		t.Errorf("receive on a write-only queue = %v, want ReceiveWrongMode", rc)
	}

	reader := New()
	if rc := reader.Open(name, ReadOnly(), OpenOnly(), Attributes{}); rc != OpenSuccess {
		t.Fatalf("open for reading failed: %v", rc)
	}
	defer reader.Close()

	if rc := reader.Send([]byte("x"), 0); rc != SendWrongMode {
		t.Errorf("send on a read-only queue = %v, want SendWrongMode", rc)
	}
}

func TestNumCurrentMessages(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{MaxMessages: Exactly(4)})

	if n := queue.NumCurrentMessages(); n != 0 {
		t.Errorf("a fresh queue reports %d current messages, want 0", n)
	}
	queue.Send([]byte("a"), 0)
	queue.Send([]byte("b"), 0)
	if n := queue.NumCurrentMessages(); n != 2 {
		t.Errorf("after two sends, %d current messages, want 2", n)
	}

	queue.Close()
	if n := queue.NumCurrentMessages(); n != 0 {
		t.Errorf("a closed handle reports %d current messages, want 0", n)
	}
}

func TestUnlink(t *testing.T) {
	requireMessageQueues(t)

	name := testQueueName(t)
	queue := New()
	if rc := queue.Open(name, ReadWrite(), CreateOnly(0), Attributes{}); rc != OpenSuccess {
		t.Fatalf("open failed: %v", rc)
	}
	queue.Close()

	if rc := Unlink(name); rc != UnlinkSuccess {
		t.Errorf("unlink = %v, want UnlinkSuccess", rc)
	}
	if rc := Unlink(name); rc != UnlinkDoesNotExist {
		t.Errorf("second unlink = %v, want UnlinkDoesNotExist", rc)
	}
}

func TestRequestedAttributesApplyOnCreate(t *testing.T) {
	requireMessageQueues(t)

	queue := openForTest(t, Attributes{
		MaxMessages:    Exactly(3),
		MaxMessageSize: Exactly(64),
	})

	if size := queue.MaxMessageSize(); size != 64 {
		t.Errorf("max message size = %d, want 64", size)
	}

	// Fill to the requested capacity, then observe fullness.
	if rc := queue.SetNonBlocking(true); rc != SetNonBlockingSuccess {
		t.Fatalf("set non-blocking failed: %v", rc)
	}
	for i := 0; i < 3; i++ {
		if rc := queue.Send([]byte("x"), 0); rc != SendSuccess {
			t.Fatalf("send %d failed: %v", i, rc)
		}
	}
	if rc := queue.Send([]byte("x"), 0); rc != SendFull {
		t.Errorf("send past capacity = %v, want SendFull", rc)
	}
}
