package engine

import (
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureFormatSupportedCombinations(t *testing.T) {
	f, err := textureFormat(F32, RGBA)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA32Float, f)

	f, err = textureFormat(U8, R)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatR8Unorm, f)
}

func TestTextureFormatUnsupportedCombination(t *testing.T) {
	// F64 has no image format entry (spec.md §4.3 restricts image
	// element types to {i8,u8,i16,u16,i32,u32,f16,f32}).
	_, err := textureFormat(F64, RGBA)
	require.Error(t, err)
	assert.Equal(t, KindInvalidImageFormat, errKind(err))
}

func TestChannelCount(t *testing.T) {
	assert.Equal(t, 1, channelCount(R))
	assert.Equal(t, 2, channelCount(RG))
	assert.Equal(t, 4, channelCount(RGBA))
}
