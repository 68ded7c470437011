package alerts

// DefaultLogSize is the number of alerts Log keeps.
const DefaultLogSize = 100

// Log is a capped, oldest-first record of alerts. It is not synchronized;
// the sampler owns it and publishes copies.
type Log struct {
	data  []Alert
	head  int
	count int
	size  int
}

// NewLog creates a log holding at most size alerts.
func NewLog(size int) *Log {
	if size <= 0 {
		size = DefaultLogSize
	}
	return &Log{
		data: make([]Alert, size),
		size: size,
	}
}

// Append records alerts in order, evicting the oldest when full.
func (l *Log) Append(alerts ...Alert) {
	for _, a := range alerts {
		l.data[l.head] = a
		l.head = (l.head + 1) % l.size
		if l.count < l.size {
			l.count++
		}
	}
}

// Len returns the number of stored alerts.
func (l *Log) Len() int {
	return l.count
}

// Clear drops all alerts.
func (l *Log) Clear() {
	l.head = 0
	l.count = 0
	for i := range l.data {
		l.data[i] = Alert{}
	}
}

// Entries returns a copy of the stored alerts, oldest first.
func (l *Log) Entries() []Alert {
	out := make([]Alert, l.count)
	start := (l.head - l.count + l.size) % l.size
	for i := 0; i < l.count; i++ {
		out[i] = l.data[(start+i)%l.size]
	}
	return out
}
