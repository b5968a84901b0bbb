/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger is the small structured-logging surface the resolver's
// discovery loop and the transport/httpengine dial path use to report
// connect attempts, address-list exhaustion, TLS handshake completion, and
// unrecognized protocol fields. It wraps sirupsen/logrus directly instead of
// carrying the teacher's hook/entry/fields machinery, none of which any
// SPEC_FULL component calls.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Level selects the minimum severity a Logger emits.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarning:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func defaultFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		ForceColors:      false,
		DisableColors:    true,
		ForceQuote:       true,
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  time.RFC3339,
		QuoteEmptyFields: true,
	}
}

type lgr struct {
	log *logrus.Logger
}

// New builds a Logger writing level-and-above entries to out in the
// teacher's quoted-text logrus format.
func New(lvl Level, out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl.logrus())
	l.SetFormatter(defaultFormatter())

	return &lgr{log: l}
}

func (o *lgr) entry(data interface{}, args []interface{}) *logrus.Entry {
	e := logrus.NewEntry(o.log)

	if data != nil {
		e = e.WithField("data", data)
	}
	if len(args) > 0 {
		e = e.WithField("args", args)
	}

	return e
}
