// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file implements the capture capabilities on top of the ffmpeg binary.
// The host display is grabbed with x11grab (Linux), avfoundation (macOS) or
// gdigrab (Windows) and the encoded container is read from ffmpeg's stdout.
//
// Logic Flow:
//  1. Acquire grabs a single frame to prove the display can be opened. The
//     stderr of that probe is classified into the failure taxonomy.
//  2. CropTo on the video track records a crop filter for the recording.
//  3. The recorder starts ffmpeg writing to stdout and flushes what it read
//     to the chunk callback once per timeslice.
//  4. Stop sends "q" on stdin, ffmpeg finishes the container and exits, and
//     the remaining bytes are delivered as the final chunk.

package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// FFmpegCapturer implements DisplayCapturer, CodecProber and RecorderFactory.
type FFmpegCapturer struct {
	Path        string // ffmpeg binary, "ffmpeg" when empty
	InputFormat string // x11grab | avfoundation | gdigrab, chosen by GOOS when empty
	InputDevice string // display/device name, chosen by GOOS when empty
	AudioDevice string

	encodersOnce sync.Once
	encoders     map[string]bool
}

// NewFFmpegCapturer fills the platform defaults.
func NewFFmpegCapturer(path, inputFormat, inputDevice, audioDevice string) *FFmpegCapturer {
	if path == "" {
		path = "ffmpeg"
	}
	if inputFormat == "" {
		inputFormat = defaultInputFormat(runtime.GOOS)
	}
	if inputDevice == "" {
		inputDevice = defaultInputDevice(inputFormat)
	}
	return &FFmpegCapturer{Path: path, InputFormat: inputFormat, InputDevice: inputDevice, AudioDevice: audioDevice}
}

func defaultInputFormat(goos string) string {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "x11grab"
	case "darwin":
		return "avfoundation"
	case "windows":
		return "gdigrab"
	default:
		return ""
	}
}

func defaultInputDevice(format string) string {
	switch format {
	case "x11grab":
		if d := os.Getenv("DISPLAY"); d != "" {
			return d
		}
		return ":0.0"
	case "avfoundation":
		return "1"
	case "gdigrab":
		return "desktop"
	default:
		return ""
	}
}

// Supported reports whether the binary is on the path and the platform has a
// known grab device.
func (f *FFmpegCapturer) Supported() bool {
	if f.InputFormat == "" {
		return false
	}
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// ClassifyStderr maps ffmpeg diagnostics onto the capture sentinels.
func ClassifyStderr(stderr string) error {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "permission denied"),
		strings.Contains(s, "not authorized"),
		strings.Contains(s, "operation not permitted"),
		strings.Contains(s, "screen recording permission"):
		return ErrPermissionDenied
	case strings.Contains(s, "cannot open display"),
		strings.Contains(s, "no such file or directory"),
		strings.Contains(s, "could not find"),
		strings.Contains(s, "no devices found"),
		strings.Contains(s, "invalid device"):
		return ErrDeviceNotFound
	case strings.Contains(s, "unknown input format"):
		return ErrNotSupported
	default:
		return nil
	}
}

func (f *FFmpegCapturer) classify(runErr error, stderr string) error {
	msg := strings.TrimSpace(lastLines(stderr, 3))
	if sentinel := ClassifyStderr(stderr); sentinel != nil {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	if errors.Is(runErr, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotSupported, runErr)
	}
	return fmt.Errorf("ffmpeg failed: %v: %s", runErr, msg)
}

func lastLines(in string, n int) string {
	lines := strings.Split(strings.TrimSpace(in), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

// inputArgs are the grab arguments shared by the probe and the recorder.
func (f *FFmpegCapturer) inputArgs(c Constraints) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	fps := strconv.Itoa(c.FrameRate.Ideal)
	size := fmt.Sprintf("%dx%d", c.Width.Ideal, c.Height.Ideal)
	switch f.InputFormat {
	case "x11grab":
		args = append(args, "-f", "x11grab", "-framerate", fps, "-video_size", size, "-i", f.InputDevice)
		if c.Audio && f.AudioDevice != "" {
			args = append(args, "-f", "pulse", "-i", f.AudioDevice)
		}
	case "avfoundation":
		device := f.InputDevice
		if c.Audio && f.AudioDevice != "" {
			device = device + ":" + f.AudioDevice
		}
		args = append(args, "-f", "avfoundation", "-capture_cursor", "1", "-framerate", fps, "-i", device)
	case "gdigrab":
		args = append(args, "-f", "gdigrab", "-framerate", fps, "-i", f.InputDevice)
		if c.Audio && f.AudioDevice != "" {
			args = append(args, "-f", "dshow", "-i", "audio="+f.AudioDevice)
		}
	default:
		args = append(args, "-f", f.InputFormat, "-framerate", fps, "-i", f.InputDevice)
	}
	return args
}

// Acquire proves the display can be opened by grabbing a single frame.
func (f *FFmpegCapturer) Acquire(ctx context.Context, constraints Constraints) (Stream, error) {
	if !f.Supported() {
		return nil, ErrNotSupported
	}
	constraints = constraints.Clamp()
	args := append(f.inputArgs(constraints), "-frames:v", "1", "-f", "null", "-")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, f.classify(err, stderr.String())
	}
	s := &ffmpegStream{capturer: f, constraints: constraints}
	s.video = &ffmpegTrack{kind: "video", stream: s}
	s.tracks = []Track{s.video}
	if constraints.Audio && f.AudioDevice != "" {
		s.tracks = append(s.tracks, &ffmpegTrack{kind: "audio", stream: s})
	}
	return s, nil
}

var codecEncoders = map[string][]string{
	"h264": {"libx264", "h264_videotoolbox", "h264_nvenc", "h264_qsv", "h264_mf"},
	"vp9":  {"libvpx-vp9"},
	"vp8":  {"libvpx"},
}

func (f *FFmpegCapturer) loadEncoders() {
	f.encoders = make(map[string]bool)
	out, err := exec.Command(f.Path, "-hide_banner", "-encoders").Output()
	if err != nil {
		return
	}
	f.encoders = ParseEncoders(out)
}

// ParseEncoders reads the encoder names out of `ffmpeg -encoders` output.
// Encoder lines start with a six character flag column such as " V....D".
func ParseEncoders(out []byte) map[string]bool {
	encoders := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	started := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "------") {
			started = true
			continue
		}
		if !started {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && len(fields[0]) == 6 {
			encoders[fields[1]] = true
		}
	}
	return encoders
}

// encoderFor returns the ffmpeg encoder and muxer for a MIME type, or empty
// strings when none of the candidate encoders is available.
func encoderFor(mimeType string, available map[string]bool) (encoder string, muxer string) {
	media, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", ""
	}
	pick := func(codec string) string {
		for _, e := range codecEncoders[codec] {
			if available[e] {
				return e
			}
		}
		return ""
	}
	codec := strings.ToLower(params["codecs"])
	switch media {
	case "video/webm":
		switch codec {
		case "h264":
			return pick("h264"), "matroska"
		case "vp9", "vp8":
			return pick(codec), "webm"
		case "":
			if e := pick("vp8"); e != "" {
				return e, "webm"
			}
			return pick("vp9"), "webm"
		}
	case "video/mp4":
		if codec == "" || codec == "h264" {
			return pick("h264"), "mp4"
		}
	}
	return "", ""
}

// IsTypeSupported checks the MIME type against the local encoders.
func (f *FFmpegCapturer) IsTypeSupported(mimeType string) bool {
	f.encodersOnce.Do(f.loadEncoders)
	encoder, _ := encoderFor(mimeType, f.encoders)
	return encoder != ""
}

// NewRecorder creates a recorder for a stream acquired by this capturer.
func (f *FFmpegCapturer) NewRecorder(stream Stream, opts RecorderOptions) (Recorder, error) {
	s, ok := stream.(*ffmpegStream)
	if !ok {
		return nil, fmt.Errorf("stream was not acquired by ffmpeg")
	}
	f.encodersOnce.Do(f.loadEncoders)
	encoder, muxer := encoderFor(opts.MIMEType, f.encoders)
	if encoder == "" {
		// the default container always falls back to ffmpeg's native vp8
		encoder, muxer = "libvpx", "webm"
	}
	bps := opts.BitsPerSecond
	if bps <= 0 || bps > MaxBitsPerSecond {
		bps = MaxBitsPerSecond
	}
	return &ffmpegRecorder{stream: s, encoder: encoder, muxer: muxer, bitsPerSecond: bps, onError: opts.OnError, done: make(chan struct{})}, nil
}

type ffmpegStream struct {
	capturer    *FFmpegCapturer
	constraints Constraints
	video       *ffmpegTrack
	tracks      []Track

	mu     sync.Mutex
	crop   *Region
	cmd    *exec.Cmd
	killed bool
}

func (s *ffmpegStream) VideoTracks() []Track {
	return []Track{s.video}
}

func (s *ffmpegStream) Tracks() []Track {
	return s.tracks
}

// trackStopped kills the recording process once every track is stopped.
func (s *ffmpegStream) trackStopped() {
	for _, t := range s.tracks {
		if !t.Stopped() {
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil && s.cmd.Process != nil && !s.killed {
		s.killed = true
		_ = s.cmd.Process.Kill()
	}
}

func (s *ffmpegStream) wasKilled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.killed
}

type ffmpegTrack struct {
	kind    string
	stream  *ffmpegStream
	stopped atomic.Bool
}

func (t *ffmpegTrack) Kind() string {
	return t.kind
}

func (t *ffmpegTrack) Stop() {
	if t.stopped.CompareAndSwap(false, true) {
		t.stream.trackStopped()
	}
}

func (t *ffmpegTrack) Stopped() bool {
	return t.stopped.Load()
}

// CropTo restricts the recording to region. It must be called before the
// recorder starts.
func (t *ffmpegTrack) CropTo(_ context.Context, region Region) error {
	if t.kind != "video" {
		return fmt.Errorf("cannot crop a %s track", t.kind)
	}
	c := t.stream.constraints
	if region.Width <= 0 || region.Height <= 0 || region.X < 0 || region.Y < 0 {
		return fmt.Errorf("invalid crop region %+v", region)
	}
	if region.X+region.Width > c.Width.Ideal || region.Y+region.Height > c.Height.Ideal {
		return fmt.Errorf("crop region %+v exceeds the %dx%d surface", region, c.Width.Ideal, c.Height.Ideal)
	}
	t.stream.mu.Lock()
	defer t.stream.mu.Unlock()
	if t.stream.cmd != nil {
		return fmt.Errorf("recording already started")
	}
	// most encoders need even dimensions
	r := region
	r.Width -= r.Width % 2
	r.Height -= r.Height % 2
	t.stream.crop = &r
	return nil
}

// RecordArgs builds the full ffmpeg argument list for a recording to stdout.
func (f *FFmpegCapturer) RecordArgs(c Constraints, crop *Region, encoder, muxer string, bitsPerSecond int) []string {
	args := f.inputArgs(c)
	if crop != nil {
		args = append(args, "-vf", fmt.Sprintf("crop=%d:%d:%d:%d", crop.Width, crop.Height, crop.X, crop.Y))
	}
	args = append(args,
		"-r", strconv.Itoa(c.FrameRate.Max),
		"-c:v", encoder,
		"-b:v", strconv.Itoa(bitsPerSecond),
		"-maxrate", strconv.Itoa(bitsPerSecond),
		"-bufsize", strconv.Itoa(bitsPerSecond*2),
	)
	if encoder == "libx264" {
		args = append(args, "-preset", "veryfast", "-pix_fmt", "yuv420p")
	}
	if c.Audio && f.AudioDevice != "" {
		if muxer == "mp4" {
			args = append(args, "-c:a", "aac")
		} else {
			args = append(args, "-c:a", "libopus")
		}
	}
	if muxer == "mp4" {
		args = append(args, "-movflags", "frag_keyframe+empty_moov+default_base_moof")
	}
	return append(args, "-f", muxer, "pipe:1")
}

type ffmpegRecorder struct {
	stream        *ffmpegStream
	encoder       string
	muxer         string
	bitsPerSecond int
	onError       func(error)

	stdin    io.WriteCloser
	stderr   bytes.Buffer
	done     chan struct{}
	stopping atomic.Bool
	waitErr  error
}

func (r *ffmpegRecorder) Start(timeslice time.Duration, onChunk func([]byte)) error {
	s := r.stream
	s.mu.Lock()
	crop := s.crop
	s.mu.Unlock()

	args := s.capturer.RecordArgs(s.constraints, crop, r.encoder, r.muxer, r.bitsPerSecond)
	cmd := exec.Command(s.capturer.Path, args...)
	cmd.Stderr = &r.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if r.stdin, err = cmd.StdinPipe(); err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return s.capturer.classify(err, r.stderr.String())
	}
	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	var (
		pendingMu sync.Mutex
		pending   bytes.Buffer
	)
	flush := func() {
		pendingMu.Lock()
		if pending.Len() == 0 {
			pendingMu.Unlock()
			return
		}
		chunk := make([]byte, pending.Len())
		copy(chunk, pending.Bytes())
		pending.Reset()
		pendingMu.Unlock()
		onChunk(chunk)
	}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		buf := make([]byte, 64*1024)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				pendingMu.Lock()
				pending.Write(buf[:n])
				pendingMu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(timeslice)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				flush()
			case <-readDone:
				r.waitErr = cmd.Wait()
				flush()
				if r.waitErr != nil && !r.stopping.Load() && r.onError != nil {
					r.onError(s.capturer.classify(r.waitErr, r.stderr.String()))
				}
				close(r.done)
				return
			}
		}
	}()
	return nil
}

// Stop asks ffmpeg to finish the container and waits for the final chunk.
// The process is killed when ctx ends first.
func (r *ffmpegRecorder) Stop(ctx context.Context) error {
	if !r.stopping.CompareAndSwap(false, true) {
		<-r.done
		return nil
	}
	if r.stdin != nil {
		_, _ = io.WriteString(r.stdin, "q")
		_ = r.stdin.Close()
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		r.stream.mu.Lock()
		if r.stream.cmd != nil && r.stream.cmd.Process != nil && !r.stream.killed {
			r.stream.killed = true
			_ = r.stream.cmd.Process.Kill()
		}
		r.stream.mu.Unlock()
		<-r.done
		return ctx.Err()
	}
	if r.waitErr != nil && !r.stream.wasKilled() {
		var exitErr *exec.ExitError
		if errors.As(r.waitErr, &exitErr) && exitErr.ExitCode() == 255 {
			// ffmpeg exits 255 after "q" on some grab devices
			return nil
		}
		return r.stream.capturer.classify(r.waitErr, r.stderr.String())
	}
	return nil
}
