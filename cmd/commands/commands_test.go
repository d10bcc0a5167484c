/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/keyedflow/pkg/apps/hourlytips"
	"github.com/numaproj/keyedflow/pkg/apps/longrides"
	"github.com/numaproj/keyedflow/pkg/udferr"
)

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func decodeLines[T any](t *testing.T, out *bytes.Buffer) []T {
	t.Helper()
	var res []T
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var v T
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &v))
		res = append(res, v)
	}
	return res
}

func Test_Commands(t *testing.T) {
	// no metrics server in tests
	t.Setenv("KEYEDFLOW_METRICS_PORT", "0")

	t.Run("root help", func(t *testing.T) {
		b := bytes.NewBufferString("")
		rootCmd.SetOut(b)
		rootCmd.SetArgs([]string{"help"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, b.String(), "Available Commands")
		assert.Contains(t, b.String(), "longrides")
		assert.Contains(t, b.String(), "hourlytips")
	})

	t.Run("version", func(t *testing.T) {
		cmd := NewVersionCommand()
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{"--short"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, "latest+unknown\n", b.String())
	})

	t.Run("longrides", func(t *testing.T) {
		cmd := NewLongRidesCommand()
		assert.Equal(t, "longrides", cmd.Use)
		assert.Equal(t, "duration", cmd.Flag("timeout").Value.Type())
		input := writeInput(t,
			`{"rideId": 1, "isStart": true, "startTime": 0, "driverId": 11}`,
			`{"rideId": 2, "isStart": true, "startTime": 0, "driverId": 12}`,
			`{"rideId": 3, "isStart": false, "startTime": 0, "endTime": 500, "driverId": 13}`,
			``,
			`{"rideId": 2, "isStart": false, "startTime": 0, "endTime": 1000, "driverId": 12}`,
			`{"rideId": 3, "isStart": true, "startTime": 0, "driverId": 13}`,
		)
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{"--input", input})
		require.NoError(t, cmd.Execute())

		alerts := decodeLines[longrides.TaxiRide](t, b)
		require.Len(t, alerts, 1)
		assert.Equal(t, int64(1), alerts[0].RideID)
		assert.True(t, alerts[0].IsStart)
	})

	t.Run("longrides several workers", func(t *testing.T) {
		t.Setenv("KEYEDFLOW_RUNNER_WORKERS", "4")
		const hour = int64(3_600_000)
		var lines []string
		var long []int64
		for i := int64(0); i < 300; i++ {
			lines = append(lines, fmt.Sprintf(`{"rideId": %d, "isStart": true, "startTime": %d}`, i, i*hour))
			if i%25 == 0 {
				long = append(long, i)
				continue
			}
			lines = append(lines, fmt.Sprintf(`{"rideId": %d, "isStart": false, "startTime": %d, "endTime": %d}`, i, i*hour, i*hour+1000))
		}
		cmd := NewLongRidesCommand()
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{"--input", writeInput(t, lines...)})
		require.NoError(t, cmd.Execute())

		var alerted []int64
		for _, ride := range decodeLines[longrides.TaxiRide](t, b) {
			alerted = append(alerted, ride.RideID)
		}
		assert.ElementsMatch(t, long, alerted)
	})

	t.Run("longrides invalid timeout", func(t *testing.T) {
		cmd := NewLongRidesCommand()
		cmd.SetOut(bytes.NewBufferString(""))
		cmd.SetArgs([]string{"--input", writeInput(t, "{}"), "--timeout", "0s"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.True(t, udferr.IsConfigError(err))
	})

	t.Run("longrides bad input", func(t *testing.T) {
		cmd := NewLongRidesCommand()
		cmd.SetOut(bytes.NewBufferString(""))
		cmd.SetArgs([]string{"--input", writeInput(t, `{"rideId": 1, "isStart": true}`, "not json")})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("longrides missing input", func(t *testing.T) {
		cmd := NewLongRidesCommand()
		cmd.SetOut(bytes.NewBufferString(""))
		cmd.SetArgs([]string{"--input", filepath.Join(t.TempDir(), "nope.jsonl")})
		assert.Error(t, cmd.Execute())
	})

	t.Run("hourlytips", func(t *testing.T) {
		cmd := NewHourlyTipsCommand()
		assert.Equal(t, "hourlytips", cmd.Use)
		input := writeInput(t,
			`{"rideId": 1, "driverId": 1, "startTime": 100, "tip": 1}`,
			`{"rideId": 2, "driverId": 2, "startTime": 200, "tip": 5}`,
			`{"rideId": 3, "driverId": 1, "startTime": 300, "tip": 2}`,
			`{"rideId": 4, "driverId": 1, "startTime": 3600100, "tip": 10}`,
		)
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{"--input", input, "--window-size", "1h"})
		require.NoError(t, cmd.Execute())

		assert.Equal(t, []hourlytips.HourlyMax{
			{WindowEnd: 3600000, DriverID: 2, TotalTips: 5},
			{WindowEnd: 7200000, DriverID: 1, TotalTips: 10},
		}, decodeLines[hourlytips.HourlyMax](t, b))
	})
}
