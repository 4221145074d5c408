/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		" warn ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewLogger_Registry(t *testing.T) {
	l := NewLogger("UTILS_TEST")
	assert.Same(t, l, NewLogger("UTILS_TEST"))

	assert.True(t, SetLoggerLevel("UTILS_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("UTILS_TEST_MISSING", "error"))
}

func TestNewLogger_NameField(t *testing.T) {
	l := NewLogger("UTILS_NAME_TEST")
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(logrus.InfoLevel)

	l.Info("hello")
	assert.Contains(t, buf.String(), "logger=UTILS_NAME_TEST")
	assert.Contains(t, buf.String(), "hello")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STR", "value")
	t.Setenv("UTILS_TEST_BOOL", "true")

	assert.Equal(t, "value", EnvDefaultString("UTILS_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("UTILS_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_TEST_UNSET", true))
}
