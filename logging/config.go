// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains the configuration of the logging functionality.
type Config struct {
	Environment string  `choice:"dev" choice:"custom" description:"The logging environment in use" long:"env"`
	Custom      *Custom `group:"Custom" namespace:"custom"`
}

// Custom contains the custom log config.
type Custom struct {
	Zap        *Zap        `group:"Zap" namespace:"zap"`
	ZapEncoder *ZapEncoder `group:"ZapEncoder" namespace:"zapencoder"`
}

// Zap configures the core zap logger.
type Zap struct {
	Level            Level
	Development      bool
	Encoding         string
	OutputPaths      []string
	ErrorOutputPaths []string
}

// ZapEncoder configures the zap encoder keys and formats.
type ZapEncoder struct {
	CallerKey      string
	EncodeCaller   string
	EncodeDuration string
	EncodeLevel    string
	EncodeName     string
	EncodeTime     string
	LevelKey       string
	LineEnding     string
	MessageKey     string
	NameKey        string
	TimeKey        string
}

// NewDefaultConfig creates an instance of the logging config, set to sane
// defaults (dev environment, console output).
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Custom: &Custom{
			Zap: &Zap{
				Development:      true,
				Encoding:         "console",
				Level:            InfoLevel,
				OutputPaths:      []string{"stdout"},
				ErrorOutputPaths: []string{"stderr"},
			},
			ZapEncoder: &ZapEncoder{
				CallerKey:      "C",
				EncodeCaller:   "short",
				EncodeDuration: "string",
				EncodeLevel:    "capital",
				EncodeName:     "full",
				EncodeTime:     "iso8601",
				LevelKey:       "L",
				LineEnding:     "\n",
				MessageKey:     "M",
				NameKey:        "N",
				TimeKey:        "T",
			},
		},
	}
}

// NewLoggerFromConfig creates a standard or custom logger from a config.
func NewLoggerFromConfig(config Config) *Logger {
	if config.Environment == "custom" {
		if log, err := newCustomLogger(config.Custom); err == nil {
			return log
		}
		// Fall through to a dev logger rather than refusing to start on a
		// malformed custom section.
	}
	if config.Environment == "dev" {
		return NewDevLogger()
	}
	return NewProdLogger()
}

func newCustomLogger(custom *Custom) (*Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		CallerKey:  custom.ZapEncoder.CallerKey,
		LevelKey:   custom.ZapEncoder.LevelKey,
		LineEnding: custom.ZapEncoder.LineEnding,
		MessageKey: custom.ZapEncoder.MessageKey,
		NameKey:    custom.ZapEncoder.NameKey,
		TimeKey:    custom.ZapEncoder.TimeKey,
	}
	if err := encoderConfig.EncodeCaller.UnmarshalText([]byte(custom.ZapEncoder.EncodeCaller)); err != nil {
		return nil, err
	}
	if err := encoderConfig.EncodeDuration.UnmarshalText([]byte(custom.ZapEncoder.EncodeDuration)); err != nil {
		return nil, err
	}
	if err := encoderConfig.EncodeLevel.UnmarshalText([]byte(custom.ZapEncoder.EncodeLevel)); err != nil {
		return nil, err
	}
	if err := encoderConfig.EncodeName.UnmarshalText([]byte(custom.ZapEncoder.EncodeName)); err != nil {
		return nil, err
	}
	if err := encoderConfig.EncodeTime.UnmarshalText([]byte(custom.ZapEncoder.EncodeTime)); err != nil {
		return nil, err
	}

	level := custom.Zap.Level.ZapLevel()
	config := &zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      custom.Zap.Development,
		Encoding:         custom.Zap.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      custom.Zap.OutputPaths,
		ErrorOutputPaths: custom.Zap.ErrorOutputPaths,
	}

	var encoder zapcore.Encoder
	switch custom.Zap.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, os.Stdout, level)
	return New(core, config), nil
}
