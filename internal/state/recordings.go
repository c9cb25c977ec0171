package state

import (
	"time"

	"github.com/vdobler/htmock/internal/matcher"
	"github.com/vdobler/htmock/internal/reccodec"
	"github.com/vdobler/htmock/internal/wire"
)

// AddRecording starts capturing requests matching create.Request.
func (s *State) AddRecording(create wire.RecordingCreate) wire.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &recordingState{Recording: wire.Recording{ID: s.nextRecordingID, RecordingCreate: create}}
	s.nextRecordingID++
	s.recordings = append(s.recordings, rec)
	return rec.Recording
}

// DeleteRecording stops and discards the recording with the given id,
// reporting whether it existed.
func (s *State) DeleteRecording(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recordings {
		if r.ID == id {
			s.recordings = append(s.recordings[:i], s.recordings[i+1:]...)
			return true
		}
	}
	return false
}

// FetchRecording returns the live recording header (not its captures) with
// the given id.
func (s *State) FetchRecording(id int) (wire.Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recordings {
		if r.ID == id {
			return r.Recording, true
		}
	}
	return wire.Recording{}, false
}

// Record appends a captured MockDefinition to every recording whose
// requirements match req, for the response actually returned. When
// isProxied, the captured requirements pin host, port and scheme to the
// live request's own values, the way a proxied capture must replay against
// the same upstream it was taken from.
func (s *State) Record(isProxied bool, elapsed time.Duration, req *matcher.Request, resp wire.MockResponseDef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.recordings {
		if !matcher.Evaluate(req, &rec.Request).Matches {
			continue
		}
		when := captureRequirements(req, isProxied, rec.HeaderAllowlist)
		then := resp
		if rec.RecordResponseDelays {
			then.DelayMS = elapsed.Milliseconds()
		} else {
			then.DelayMS = 0
		}
		rec.captured = append(rec.captured, wire.RecordedEntry{When: when, Then: then})
	}
}

func captureRequirements(req *matcher.Request, isProxied bool, allowlist []string) wire.RequestRequirements {
	rr := wire.RequestRequirements{
		Method: wire.StringConstraint{Equals: req.Method},
		Path:   wire.StringConstraint{Equals: req.Path},
	}
	if isProxied {
		rr.Scheme = wire.StringConstraint{Equals: req.Scheme}
		rr.Host = wire.StringConstraint{Equals: req.Host}
		rr.Port = wire.StringConstraint{Equals: req.Port}
	}
	if len(req.Body) > 0 {
		rr.Body.Equals = string(req.Body)
	}
	allowed := make(map[string]bool, len(allowlist))
	for _, name := range allowlist {
		allowed[matcher.Fold(name)] = true
	}
	for _, h := range req.Headers {
		if allowed[matcher.Fold(h.Key)] {
			rr.Header = append(rr.Header, wire.KVConstraint{
				Key:      wire.StringConstraint{Equals: h.Key},
				Value:    wire.StringConstraint{Equals: h.Value},
				Strategy: wire.StrategyPresence,
				Operator: wire.OpAND,
			})
		}
	}
	return rr
}

// ExportRecording serializes a recording's captures as a portable document.
// The bool result is false when the id is unknown; a non-nil error reports
// an encode failure, which is distinct from an unknown id and must not be
// collapsed into the same not-found result.
func (s *State) ExportRecording(id int) ([]byte, bool, error) {
	s.mu.Lock()
	var doc wire.RecordedDocument
	found := false
	for _, r := range s.recordings {
		if r.ID == id {
			doc = wire.RecordedDocument{Mocks: append([]wire.RecordedEntry(nil), r.captured...)}
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil, false, nil
	}
	data, err := reccodec.Encode(doc)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// LoadMocksFromRecording decodes a previously exported document and inserts
// each entry as a non-static mock, returning the assigned ids.
func (s *State) LoadMocksFromRecording(content []byte) ([]int, error) {
	if len(content) == 0 {
		return nil, &wire.ValidationError{Reason: "recording document is empty"}
	}
	doc, err := reccodec.Decode(content)
	if err != nil {
		return nil, &wire.ValidationError{Reason: err.Error()}
	}
	ids := make([]int, 0, len(doc.Mocks))
	for _, entry := range doc.Mocks {
		mock, err := s.AddMock(wire.MockDefinition{Request: entry.When, Response: entry.Then}, false)
		if err != nil {
			return ids, err
		}
		ids = append(ids, mock.ID)
	}
	return ids, nil
}
