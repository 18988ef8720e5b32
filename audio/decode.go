package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep.Resample interpolation quality
const resampleQuality = 4

// decodeFile reads a WAV or MP3 file fully into a buffer at rate sr
func decodeFile(path string, sr beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("open sample"))
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fault.New(fmt.Sprintf("unsupported sample format %q", ext))
	}
	if err != nil {
		f.Close()
		return nil, fault.Wrap(err, fmsg.With("decode sample"))
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != sr {
		src = beep.Resample(resampleQuality, format.SampleRate, sr, s)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("decode sample"))
	}
	if buf.Len() == 0 {
		return nil, fault.New(fmt.Sprintf("sample %s is empty", filepath.Base(path)))
	}
	return buf, nil
}
