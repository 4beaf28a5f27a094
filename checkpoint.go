package nestgo

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/nestgo/blobstore"
	"github.com/hupe1980/nestgo/codec"
	"github.com/hupe1980/nestgo/likelihood"
	"github.com/hupe1980/nestgo/prior"
)

// Checkpoint file layout:
//
//	[Magic:4][Version:2][CodecNameLen:1][CodecName:N][Compression:1][SectionCount:1]
//	per section: [NameLen:1][Name:N][BlockLen:4][CRC32:4][Block:BlockLen]
//
// Blocks are codec.Compress frames; the CRC covers the compressed block.
var checkpointMagic = [4]byte{'N', 'S', 'C', 'K'}

const checkpointVersion = uint16(1)

const (
	sectionMeta      = "meta"
	sectionState     = "state"
	sectionRNG       = "rng"
	sectionActive    = "active"
	sectionLive      = "live"
	sectionPosterior = "posterior"
)

// checkpointMeta is the codec-encoded part of a snapshot. The floating
// point accumulators live in the binary state section because JSON has
// no representation for infinities.
type checkpointMeta struct {
	Dimension       int    `json:"dimension"`
	Seed            uint64 `json:"seed"`
	NLiveInitial    int    `json:"n_live_initial"`
	NLive           int    `json:"n_live"`
	SampleCount     int    `json:"sample_count"`
	Iteration       int    `json:"iteration"`
	LastClusterIter int    `json:"last_cluster_iter"`
	LikelihoodEvals int64  `json:"likelihood_evals"`
}

// checkpointPayload holds the decoded sections before they are applied
// to a Sampler.
type checkpointPayload struct {
	meta      checkpointMeta
	state     [5]float64 // logZ, h, logWidth, logLStar, logXRemaining
	rng       []byte
	active    []byte
	live      []byte
	posterior []byte
}

func checkpointName(iteration int) string {
	return fmt.Sprintf("checkpoint-%06d.nsc", iteration)
}

// Checkpoint writes a snapshot to the configured store immediately and
// returns the blob name. It is rejected while Run is executing; call it
// after Run returns, for example to archive the final state or to
// extend a finished run later by resuming it with a smaller
// termination factor.
func (s *Sampler) Checkpoint(ctx context.Context) (string, error) {
	if s.opts.checkpointStore == nil {
		return "", errors.New("no checkpoint store configured")
	}

	switch cur := s.State(); cur {
	case StateUninitialized, StateRunning, StateClustering:
		return "", &ErrInvalidState{Op: "checkpoint", State: cur}
	}

	return s.saveCheckpoint(ctx)
}

func (s *Sampler) saveCheckpoint(ctx context.Context) (string, error) {
	start := time.Now()
	name := checkpointName(s.iteration)

	data, err := s.encodeCheckpoint()
	if err == nil {
		err = s.opts.checkpointStore.Put(ctx, name, data)
	}
	if err == nil {
		// The latest pointer commits the checkpoint.
		err = s.opts.checkpointStore.Put(ctx, blobstore.Latest, []byte(name))
	}
	err = translateError(err)

	s.metrics.RecordCheckpoint(len(data), time.Since(start), err)
	s.logger.LogCheckpoint(ctx, name, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *Sampler) encodeCheckpoint() ([]byte, error) {
	slots := s.live.slots()

	meta := checkpointMeta{
		Dimension:       s.dim,
		Seed:            s.seed,
		NLiveInitial:    s.nLiveInitial,
		NLive:           len(slots),
		SampleCount:     len(s.posterior),
		Iteration:       s.iteration,
		LastClusterIter: s.lastClusterIter,
		LikelihoodEvals: s.likeEvals,
	}
	metaBytes, err := s.opts.codec.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint meta: %w", err)
	}

	state := make([]byte, 0, 5*8)
	for _, v := range [...]float64{s.logZ, s.h, s.logWidth, s.logLStar, s.logXRemaining} {
		state = appendFloat64(state, v)
	}

	rngBytes, err := s.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode rng state: %w", err)
	}

	activeBytes, err := s.live.active.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode live set: %w", err)
	}

	live := make([]byte, 0, len(slots)*(s.dim+1)*8)
	for _, slot := range slots {
		for _, v := range s.live.thetas[slot] {
			live = appendFloat64(live, v)
		}
		live = appendFloat64(live, s.live.logLs[slot])
	}

	post := make([]byte, 0, len(s.posterior)*(s.dim+2)*8)
	for _, sample := range s.posterior {
		for _, v := range sample.Theta {
			post = appendFloat64(post, v)
		}
		post = appendFloat64(post, sample.LogLikelihood)
		post = appendFloat64(post, sample.LogWeight)
	}

	sections := []struct {
		name string
		data []byte
	}{
		{sectionMeta, metaBytes},
		{sectionState, state},
		{sectionRNG, rngBytes},
		{sectionActive, activeBytes},
		{sectionLive, live},
		{sectionPosterior, post},
	}

	var buf bytes.Buffer
	buf.Write(checkpointMagic[:])

	var fixed [2]byte
	binary.LittleEndian.PutUint16(fixed[:], checkpointVersion)
	buf.Write(fixed[:])

	codecName := s.opts.codec.Name()
	buf.WriteByte(uint8(len(codecName)))
	buf.WriteString(codecName)
	buf.WriteByte(uint8(s.opts.compression))
	buf.WriteByte(uint8(len(sections)))

	var frame [8]byte
	for _, sec := range sections {
		block, err := codec.Compress(sec.data, s.opts.compression)
		if err != nil {
			return nil, fmt.Errorf("failed to compress %s section: %w", sec.name, err)
		}
		buf.WriteByte(uint8(len(sec.name)))
		buf.WriteString(sec.name)
		binary.LittleEndian.PutUint32(frame[0:4], uint32(len(block)))
		binary.LittleEndian.PutUint32(frame[4:8], crc32.ChecksumIEEE(block))
		buf.Write(frame[:])
		buf.Write(block)
	}

	return buf.Bytes(), nil
}

func decodeCheckpoint(data []byte) (*checkpointPayload, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read checkpoint header: %w", err)
	}
	if magic != checkpointMagic {
		return nil, errors.New("not a checkpoint: invalid magic")
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read checkpoint header: %w", err)
	}
	if version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version: %d", version)
	}

	codecName, err := readSmallString(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint header: %w", err)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("unknown checkpoint codec: %s", codecName)
	}

	compByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint header: %w", err)
	}
	compression := codec.Compression(compByte)
	switch compression {
	case codec.CompressionNone, codec.CompressionLZ4, codec.CompressionZSTD:
	default:
		return nil, fmt.Errorf("unsupported checkpoint compression: %d", compByte)
	}

	count, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint header: %w", err)
	}

	sections := make(map[string][]byte, count)
	for i := 0; i < int(count); i++ {
		name, err := readSmallString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read checkpoint section: %w", err)
		}

		var frame [8]byte
		if _, err := io.ReadFull(r, frame[:]); err != nil {
			return nil, fmt.Errorf("failed to read %s section: %w", name, err)
		}
		blockLen := binary.LittleEndian.Uint32(frame[0:4])
		checksum := binary.LittleEndian.Uint32(frame[4:8])

		block := make([]byte, blockLen)
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, fmt.Errorf("failed to read %s section: %w", name, err)
		}
		if crc32.ChecksumIEEE(block) != checksum {
			return nil, fmt.Errorf("checkpoint section %s is corrupt: checksum mismatch", name)
		}

		raw, err := codec.Decompress(block, compression)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s section: %w", name, err)
		}
		sections[name] = raw
	}

	for _, name := range [...]string{sectionMeta, sectionState, sectionRNG, sectionActive, sectionLive, sectionPosterior} {
		if _, ok := sections[name]; !ok {
			return nil, fmt.Errorf("checkpoint missing %s section", name)
		}
	}

	p := &checkpointPayload{
		rng:       sections[sectionRNG],
		active:    sections[sectionActive],
		live:      sections[sectionLive],
		posterior: sections[sectionPosterior],
	}

	if err := c.Unmarshal(sections[sectionMeta], &p.meta); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint meta: %w", err)
	}

	state := sections[sectionState]
	if len(state) != len(p.state)*8 {
		return nil, errors.New("checkpoint state section malformed")
	}
	for i := range p.state {
		p.state[i] = readFloat64(state[i*8:])
	}

	return p, nil
}

// Resume reconstructs a Sampler from a stored checkpoint. An empty name
// loads the snapshot the store's latest pointer commits to.
//
// Options are not stored in snapshots; pass the desired configuration
// again, including WithCheckpoint if the continued run should keep
// writing snapshots. The random state, live points, and accumulators
// come from the snapshot, so WithSeed has no effect on a resumed run.
func Resume(ctx context.Context, store blobstore.Store, name string, p prior.Prior, l likelihood.Likelihood, optFns ...Option) (*Sampler, error) {
	if store == nil {
		return nil, errors.New("blobstore must not be nil")
	}

	s, err := New(p, l, optFns...)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = blobstore.Latest
	}
	if name == blobstore.Latest {
		ptr, err := store.Get(ctx, blobstore.Latest)
		if err != nil {
			err = translateError(err)
			s.logger.LogResume(ctx, name, 0, err)
			return nil, err
		}
		name = string(bytes.TrimSpace(ptr))
	}

	raw, err := store.Get(ctx, name)
	if err != nil {
		err = translateError(err)
		s.logger.LogResume(ctx, name, 0, err)
		return nil, err
	}

	payload, err := decodeCheckpoint(raw)
	if err != nil {
		s.logger.LogResume(ctx, name, 0, err)
		return nil, err
	}

	if payload.meta.Dimension != s.dim {
		err := &ErrDimensionMismatch{Expected: s.dim, Actual: payload.meta.Dimension}
		s.logger.LogResume(ctx, name, 0, err)
		return nil, err
	}

	if err := s.restore(payload); err != nil {
		s.logger.LogResume(ctx, name, 0, err)
		return nil, err
	}

	s.logger.LogResume(ctx, name, s.iteration, nil)
	return s, nil
}

// restore applies a decoded snapshot. The decomposition is left nil so
// the first iteration rebuilds it; automatic saves only happen at
// rebuild boundaries, which keeps a resumed run on the identical
// random stream an uninterrupted one consumes.
func (s *Sampler) restore(p *checkpointPayload) error {
	m := p.meta

	if m.NLiveInitial < 1 || m.NLive < 0 || m.NLive > m.NLiveInitial ||
		m.SampleCount < 0 || m.Iteration < 0 {
		return errors.New("checkpoint meta invalid")
	}

	if err := s.src.UnmarshalBinary(p.rng); err != nil {
		return fmt.Errorf("failed to restore rng state: %w", err)
	}

	active := roaring.New()
	if err := active.UnmarshalBinary(p.active); err != nil {
		return fmt.Errorf("failed to restore live set: %w", err)
	}
	if int(active.GetCardinality()) != m.NLive {
		return errors.New("checkpoint live set inconsistent with meta")
	}
	if !active.IsEmpty() && int(active.Maximum()) >= m.NLiveInitial {
		return errors.New("checkpoint live set references out-of-range slots")
	}

	live := newLivePoints(m.NLiveInitial, s.dim)
	live.active = active

	if len(p.live) != m.NLive*(s.dim+1)*8 {
		return errors.New("checkpoint live section truncated")
	}
	off := 0
	for _, slot := range live.slots() {
		for d := 0; d < s.dim; d++ {
			live.thetas[slot][d] = readFloat64(p.live[off:])
			off += 8
		}
		live.logLs[slot] = readFloat64(p.live[off:])
		off += 8
	}

	if len(p.posterior) != m.SampleCount*(s.dim+2)*8 {
		return errors.New("checkpoint posterior section truncated")
	}
	samples := make([]Sample, 0, m.SampleCount)
	off = 0
	for i := 0; i < m.SampleCount; i++ {
		theta := make([]float64, s.dim)
		for d := range theta {
			theta[d] = readFloat64(p.posterior[off:])
			off += 8
		}
		logL := readFloat64(p.posterior[off:])
		off += 8
		logW := readFloat64(p.posterior[off:])
		off += 8
		samples = append(samples, Sample{Theta: theta, LogLikelihood: logL, LogWeight: logW})
	}

	s.seed = m.Seed
	s.live = live
	s.nLiveInitial = m.NLiveInitial
	s.logZ = p.state[0]
	s.h = p.state[1]
	s.logWidth = p.state[2]
	s.logLStar = p.state[3]
	s.logXRemaining = p.state[4]
	s.iteration = m.Iteration
	s.lastClusterIter = m.LastClusterIter
	s.lastCheckpoint = m.Iteration
	s.likeEvals = m.LikelihoodEvals
	s.posterior = samples
	s.set = nil
	s.resumed = true
	s.state.Store(int32(StateInitialized))
	return nil
}

func readSmallString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func appendFloat64(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

func readFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
