// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggers(t *testing.T) {
	require := require.New(t)

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level.SetLevel(zap.WarnLevel)
	require.NoError(InitLoggers(GlobalConfig{Zap: &zapCfg}, map[string]GlobalConfig{
		"token": {},
	}))
	require.NotNil(L())
	require.NotNil(S())
	require.False(L().Core().Enabled(zap.InfoLevel))
	require.True(L().Core().Enabled(zap.ErrorLevel))

	named := Logger("token")
	require.NotNil(named)
	require.NotNil(Logger("unknown"))
}

func TestHex(t *testing.T) {
	f := Hex("key", []byte{0xde, 0xad})
	require.Equal(t, "key", f.Key)
	require.Equal(t, "dead", f.String)
}
