// Package codec reads and writes the serialized connected-user mapping shared
// by the snapshot stores: {"<user_id>": {"user_id", "socket_id", "coordinates"}}.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

var errNotObject = errors.New("expected a JSON object")

// DecodePresence parses one entry of the mapping. key is the entry's user id.
func DecodePresence(key string, raw []byte) (domain.Presence, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Presence{}, fmt.Errorf("%w: entry %q: %v", domain.ErrSnapshotCorrupt, key, errNotObject)
	}

	var p domain.Presence
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return domain.Presence{}, fmt.Errorf("%w: entry %q: %v", domain.ErrSnapshotCorrupt, key, err)
	}

	p.UserID = key
	if p.Coordinates != nil && !p.Coordinates.Valid() {
		p.Coordinates = nil
	}
	return p, nil
}

// DecodeSnapshot parses the whole mapping, keeping the key order of the
// document.
func DecodeSnapshot(data []byte) (domain.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, errNotObject)
	}

	var records []domain.Presence
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: entry %q: %v", domain.ErrSnapshotCorrupt, key, err)
		}

		p, err := DecodePresence(key, raw)
		if err != nil {
			return domain.Snapshot{}, err
		}
		records = append(records, p)
	}

	if _, err := dec.Token(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Snapshot{}, fmt.Errorf("%w: trailing data after mapping", domain.ErrSnapshotCorrupt)
	}

	return domain.NewSnapshot(records...), nil
}

func EncodePresence(p domain.Presence) ([]byte, error) {
	return json.Marshal(p)
}

// EncodeSnapshot writes the mapping in snapshot order.
func EncodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range snap.Records() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.UserID)
		if err != nil {
			return nil, err
		}
		val, err := EncodePresence(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
