package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mpapenbr/fantasyf1-service-go/log"
)

// streamEvents sends settlement and race events as server sent events
// until the client disconnects.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	ch := s.events.Subscribe()
	defer s.events.CancelSubscription(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, more := <-ch:
			if !more {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.l.Error("could not marshal event", log.ErrorField(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
				s.l.Debug("client gone", log.ErrorField(err))
				return
			}
			flusher.Flush()
		}
	}
}
