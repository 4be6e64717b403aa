package posixmq

import (
	"strings"
	"sync"
	"testing"
)

func TestRandomQueueNameShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := randomQueueName()
		if !strings.HasPrefix(name, "/") {
			t.Fatalf("generated name %q does not start with a slash", name)
		}
		if strings.Contains(name[1:], "/") {
			t.Fatalf("generated name %q contains an interior slash", name)
		}
		if len(name) > posixNameMax-1 {
			t.Fatalf("generated name %q is longer than %d", name, posixNameMax-1)
		}
		if seen[name] {
			t.Fatalf("generated name %q twice", name)
		}
		seen[name] = true
	}
}

func TestProbedDefaultsArePositive(t *testing.T) {
	if got := DefaultMaxMessages(); got <= 0 {
		t.Errorf("DefaultMaxMessages() = %d, want positive", got)
	}
	if got := DefaultMaxMessageSize(); got <= 0 {
		t.Errorf("DefaultMaxMessageSize() = %d, want positive", got)
	}
}

func TestProbeMemoization(t *testing.T) {
	// Repeated and concurrent calls must observe identical values.
	defaults := [2]int64{DefaultMaxMessages(), DefaultMaxMessageSize()}

	var wg sync.WaitGroup
	results := make([][2]int64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = [2]int64{DefaultMaxMessages(), DefaultMaxMessageSize()}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != defaults {
			t.Errorf("call %d observed %v, want %v", i, got, defaults)
		}
	}
}

func TestProbedMaximums(t *testing.T) {
	requireMessageQueues(t)

	maxMessages := MaxMaxMessages()
	if maxMessages < DefaultMaxMessages() {
		t.Errorf(
			"MaxMaxMessages() = %d, want at least the default %d",
			maxMessages, DefaultMaxMessages(),
		)
	}
	if again := MaxMaxMessages(); again != maxMessages {
		t.Errorf("MaxMaxMessages() changed between calls: %d then %d", maxMessages, again)
	}

	maxSize := MaxMaxMessageSize()
	if maxSize < DefaultMaxMessageSize() {
		t.Errorf(
			"MaxMaxMessageSize() = %d, want at least the default %d",
			maxSize, DefaultMaxMessageSize(),
		)
	}

	// The probed maximums must actually be admissible.
	if !canCreateQueueWith(maxMessages, DefaultMaxMessageSize()) {
		t.Errorf("a queue with the probed max messages %d cannot be created", maxMessages)
	}
	if !canCreateQueueWith(DefaultMaxMessages(), maxSize) {
		t.Errorf("a queue with the probed max message size %d cannot be created", maxSize)
	}
}

func TestOpenWithMaxAttributes(t *testing.T) {
	requireMessageQueues(t)

	queue := New()
	name := testQueueName(t)
	attrs := Attributes{MaxMessageSize: Max()}
	if rc := queue.Open(name, ReadWrite(), CreateOnly(0), attrs); rc != OpenSuccess {
		t.Fatalf("open with max message size failed: %v", rc)
	}
	defer queue.Close()

	if got := queue.MaxMessageSize(); got != MaxMaxMessageSize() {
		t.Errorf("max message size = %d, want the probed maximum %d", got, MaxMaxMessageSize())
	}
}
