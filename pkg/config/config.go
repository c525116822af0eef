package config

import (
	"time"

	flag "github.com/spf13/pflag"
)

type Config struct {
	Newscast Newscast
	Video    Video
	Ticker   Ticker
	Encoder  Encoder
	Stream   Stream
	Content  Content
	Assets   Assets
}

type Newscast struct {
	Debug      bool
	Tag        string `fig:"tag" default:"newscast"`
	LockFile   string
	Monitoring Monitoring
}

type Monitoring struct {
	Port             int    `fig:"port" default:"6601"`
	URLPrefix        string `fig:"urlPrefix"`
	MetricEnabled    bool   `fig:"metricEnabled"`
	ProfilingEnabled bool   `fig:"profilingEnabled"`
}

func (m *Monitoring) IsEnabled() bool { return m.MetricEnabled || m.ProfilingEnabled }

// Video describes the raw output frames fed into the encoder.
type Video struct {
	Width  int `fig:"width" default:"1920"`
	Height int `fig:"height" default:"1080"`
	Fps    int `fig:"fps" default:"24"`
}

// FrameSize returns the byte size of one interleaved RGB24 frame.
func (v *Video) FrameSize() int { return v.Width * v.Height * 3 }

// Ticker describes the scrolling text band at the bottom of the frame.
type Ticker struct {
	// band height in pixels
	Height int `fig:"height" default:"90"`
	// scroll speed in pixels per second
	Speed int `fig:"speed" default:"160"`
	// gap between the two text copies of the strip
	Gap      int     `fig:"gap" default:"140"`
	FontSize float64 `fig:"fontSize" default:"46"`
	// text shorter than this is padded by repetition
	MinTextLen int `fig:"minTextLen" default:"40"`
}

type Encoder struct {
	Binary           string `fig:"binary" default:"ffmpeg"`
	Bitrate          string `fig:"bitrate" default:"4500k"`
	KeyframeInterval int    `fig:"keyframeInterval" default:"48"`
	Preset           string `fig:"preset" default:"veryfast"`
	AudioBitrate     string `fig:"audioBitrate" default:"128k"`
	AudioRate        int    `fig:"audioRate" default:"44100"`
	// seconds to wait for the process to exit after stdin close
	StopTimeoutSec int `fig:"stopTimeoutSec" default:"5"`
}

func (e *Encoder) StopTimeout() time.Duration {
	return time.Duration(e.StopTimeoutSec) * time.Second
}

type Stream struct {
	// full ingest URL, e.g. rtmp://a.rtmp.youtube.com/live2/<key>
	URL      string `fig:"url"`
	CycleSec int    `fig:"cycleSec" default:"600"`
}

func (s *Stream) CycleDuration() time.Duration {
	return time.Duration(s.CycleSec) * time.Second
}

type Content struct {
	Feeds    []string `fig:"feeds"`
	MaxItems int      `fig:"maxItems" default:"40"`
	PerFeed  int      `fig:"perFeed" default:"10"`
	// shown when no headline could be fetched
	Placeholder string `fig:"placeholder" default:"No news available right now. Please check back soon."`
	Separator   string `fig:"separator" default:"  —  "`
}

type Assets struct {
	Background      string `fig:"background" default:"assets/studio.jpg"`
	Overlay         string `fig:"overlay" default:"assets/anchor.png"`
	Font            string `fig:"font" default:"assets/news.ttf"`
	Audio           string `fig:"audio" default:"assets/voiceover.mp3"`
	OverlayX        int    `fig:"overlayX" default:"40"`
	OverlayY        int    `fig:"overlayY" default:"180"`
	OverlayMaxWidth int    `fig:"overlayMaxWidth" default:"520"`
}

// allows custom config path
var configPath string

func NewConfig() (conf Config) {
	if err := LoadConfig(&conf, configPath); err != nil {
		panic(err)
	}
	return
}

// ParseFlags updates config values from passed runtime flags.
// Define own flags with default value set to the current config param.
// Don't forget to call flag.Parse().
func (c *Config) ParseFlags() {
	flag.BoolVar(&c.Newscast.Debug, "debug", c.Newscast.Debug, "Enable debug logging")
	flag.IntVar(&c.Newscast.Monitoring.Port, "monitoring.port", c.Newscast.Monitoring.Port, "Monitoring server port")
	flag.StringVar(&c.Stream.URL, "url", c.Stream.URL, "Stream ingest URL")
	flag.IntVar(&c.Stream.CycleSec, "cycle", c.Stream.CycleSec, "Cycle duration in seconds")
	flag.StringVar(&configPath, "conf", configPath, "Set custom configuration file path")
	flag.Parse()
}
