package config

const (
	defaultStateDir          = "~/.local/share/fadebatch"
	defaultLogDir            = "~/.local/share/fadebatch/logs"
	defaultEffectName        = "Graphic Fade"
	defaultFadeInSeconds     = 0.5
	defaultFadeOutSeconds    = 0.5
	defaultFFprobeBinary     = "ffprobe"
	defaultSampleRate        = 48000
	defaultOperationTimeout  = 0
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	stateDirEnv              = "FADEBATCH_STATE_DIR"
	queueDatabaseName        = "queue.db"
	runLockName              = "fadebatch.lock"
	logFileName              = "fadebatch.log"
	maxOperationTimeoutHours = 24
)

// DefaultExtensions lists the media extensions the host can open.
var DefaultExtensions = []string{
	"avi", "wav", "w64", "mpg", "mpeg", "mxf", "ac3", "mp3", "mp4", "wmv",
	"wma", "vox", "dig", "ivc", "flac", "raw", "msv", "pca", "aa3", "aif",
	"au", "ogg", "dls", "gig", "sf2",
}

var defaultGraphicFadePresets = []string{
	"-6 dB exponential fade in",
	"-6 dB exponential fade out",
	"Fade in",
	"Fade out",
	"Smooth fade in",
	"Smooth fade out",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Fade: Fade{
			EffectName:     defaultEffectName,
			FadeInSeconds:  defaultFadeInSeconds,
			FadeOutSeconds: defaultFadeOutSeconds,
		},
		Queue: Queue{
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Host: Host{
			FFprobeBinary:           defaultFFprobeBinary,
			DefaultSampleRate:       defaultSampleRate,
			OperationTimeoutSeconds: defaultOperationTimeout,
			Effects: []Effect{
				{Name: defaultEffectName, Presets: append([]string(nil), defaultGraphicFadePresets...)},
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
