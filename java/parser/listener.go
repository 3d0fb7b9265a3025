package parser

// Listener consumes the events of a grammar walk.
type Listener interface {
	HandleEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// Listeners fans every event out to each listener in order.
type Listeners []Listener

func (ls Listeners) HandleEvent(e Event) {
	for _, l := range ls {
		if l != nil {
			l.HandleEvent(e)
		}
	}
}

// Recorder keeps every event it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) HandleEvent(e Event) {
	r.Events = append(r.Events, e)
}

// Strings describes the recorded events, one per line.
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = Describe(e)
	}
	return out
}

// Errors returns the recorded syntax errors.
func (r *Recorder) Errors() []Error {
	var errs []Error
	for _, e := range r.Events {
		if err, ok := e.(Error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}
