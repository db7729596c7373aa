package moderation

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq atomic.Uint64

// NewInfractionID derives a short stable id for an infraction issued at
// the given instant. The fingerprint covers the nanosecond timestamp
// plus a per-process sequence counter, so two infractions issued within
// the same instant still get distinct ids.
func NewInfractionID(at time.Time) string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], idSeq.Add(1))
	sum := sha256.Sum256(buf[:])
	return fmt.Sprintf("%x", sum[:4])
}
