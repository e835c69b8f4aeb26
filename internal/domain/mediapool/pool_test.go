package mediapool

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "__comment": "Supported Backgrounds. Can add/remove background video here.",
  "Minecraft": ["https://www.youtube.com/watch?v=n_Dv4JMiwK8", "parkour.mp4", "bbswitzer", "center"],
  "GTA": ["https://www.youtube.com/watch?v=qGa9kWREOnE", "gta.mp4", "Achy Gaming", 480],
  "lofi": ["https://www.youtube.com/watch?v=LTphVIore3A", "lofi.mp3", "Super Lofi World"]
}`

func TestParse_StripsReservedAndFoldsKeys(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"gta", "lofi", "minecraft"}, p.Names())
	_, ok := p.Get("__COMMENT")
	assert.False(t, ok)

	r, ok := p.Get("MINECRAFT")
	require.True(t, ok)
	assert.Equal(t, "parkour.mp4", r.Filename)
	assert.Equal(t, "bbswitzer-parkour.mp4", r.LocalName())
	assert.Equal(t, "center", r.Placement)

	gta, _ := p.Get("gta")
	assert.Equal(t, "480", gta.Placement)
	lofi, _ := p.Get("Lofi")
	assert.Equal(t, "center", lofi.Placement)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"not object":   `[1,2]`,
		"short record": `{"a": ["u", "f"]}`,
		"non string":   `{"a": [1, "f", "c"]}`,
		"duplicate":    `{"a": ["u", "f", "c"], "A": ["u", "g", "c"]}`,
		"empty file":   `{"a": ["u", "", "c"]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestChoose(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))

	key, r, ok := p.Choose("GTA", rng)
	require.True(t, ok)
	assert.Equal(t, "gta", key)
	assert.Equal(t, "gta.mp4", r.Filename)

	key, _, ok = p.Choose("unknown", rng)
	require.True(t, ok)
	assert.Contains(t, p.Names(), key)

	_, _, ok = New(nil).Choose("", rng)
	assert.False(t, ok)
}

func TestBuiltin(t *testing.T) {
	video, err := Builtin("video")
	require.NoError(t, err)
	assert.Positive(t, video.Len())
	r, ok := video.Get("Minecraft")
	require.True(t, ok)
	assert.Equal(t, "bbswitzer-parkour.mp4", r.LocalName())

	audio, err := LoadOrBuiltin("", "audio")
	require.NoError(t, err)
	assert.NotContains(t, audio.Names(), "__comment")

	_, err = Builtin("image")
	assert.Error(t, err)
}
