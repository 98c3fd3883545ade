package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "jpg", NormalizeExt("jpg"))
	assert.Equal(t, "tiff", NormalizeExt(".tiff"))
}

func TestIsAllowedExt(t *testing.T) {
	assert.True(t, IsAllowedExt(".pdf"))
	assert.True(t, IsAllowedExt("WEBP"))
	assert.False(t, IsAllowedExt(".svg"))
	assert.False(t, IsAllowedExt(""))
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, IMAGE, MapExtToFormat(".PNG"))
	assert.Equal(t, IMAGE, MapExtToFormat("tif"))
	assert.Equal(t, "", MapExtToFormat(".docx"))
}
