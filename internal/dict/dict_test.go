//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 THL A29 Limited, a Tencent company.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

package dict_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0308/simple-chat-room-udp/internal/dict"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	require.Nil(t, os.WriteFile(path, []byte("apple: 苹果\nbanana: 香蕉\nhello: 你好\n"), 0o644))

	d, err := dict.Load(path)
	require.Nil(t, err)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, "苹果", d.Translate("apple"))
	assert.Equal(t, "你好", d.Translate(" hello\n"))
	assert.Equal(t, dict.Unknown, d.Translate("cherry"))
	assert.Equal(t, []string{"apple: 苹果", "banana: 香蕉", "hello: 你好"}, d.Words())
}

func TestLoadErrors(t *testing.T) {
	_, err := dict.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	_, err = dict.Parse([]byte("- not\n- a\n- mapping\n"))
	assert.NotNil(t, err)
}

func TestEmpty(t *testing.T) {
	d, err := dict.Parse(nil)
	require.Nil(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, dict.Unknown, d.Translate("apple"))
}
