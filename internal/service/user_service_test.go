package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTempPassword(t *testing.T) {
	first := generateTempPassword()
	second := generateTempPassword()

	assert.True(t, strings.HasPrefix(first, "temp-"))
	assert.Len(t, first, len("temp-")+8)
	// 随机段来自 UUID，连续两次不应相同
	assert.NotEqual(t, first, second)
}
