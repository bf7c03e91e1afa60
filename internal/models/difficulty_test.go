package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/models"
)

func TestDifficulty_HarderEasier(t *testing.T) {
	tests := []struct {
		name     string
		d        models.Difficulty
		harder   models.Difficulty
		harderOK bool
		easier   models.Difficulty
		easierOK bool
	}{
		{"easy is the floor", models.Easy, models.Medium, true, models.Easy, false},
		{"medium moves both ways", models.Medium, models.Hard, true, models.Easy, true},
		{"hard is the ceiling", models.Hard, models.Hard, false, models.Medium, true},
		{"invalid stays put", models.Difficulty(5), models.Difficulty(5), false, models.Difficulty(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := tt.d.Harder()
			assert.Equal(t, tt.harder, h)
			assert.Equal(t, tt.harderOK, ok)

			e, ok := tt.d.Easier()
			assert.Equal(t, tt.easier, e)
			assert.Equal(t, tt.easierOK, ok)
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Difficulty
		wantErr bool
	}{
		{"Easy", models.Easy, false},
		{"medium", models.Medium, false},
		{" HARD ", models.Hard, false},
		{"expert", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseDifficulty(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty_MarshalOutOfRange(t *testing.T) {
	for _, d := range []models.Difficulty{-1, 3, 42} {
		t.Run(d.String(), func(t *testing.T) {
			_, err := d.MarshalText()
			assert.ErrorIs(t, err, models.ErrInvalidDifficulty)

			_, err = d.MarshalJSON()
			assert.ErrorIs(t, err, models.ErrInvalidDifficulty)

			_, err = json.Marshal(struct {
				D models.Difficulty `json:"d"`
			}{d})
			assert.ErrorIs(t, err, models.ErrInvalidDifficulty)
		})
	}
}

func TestDifficulty_JSON(t *testing.T) {
	b, err := json.Marshal(models.Medium)
	require.NoError(t, err)
	assert.JSONEq(t, `"Medium"`, string(b))

	var d models.Difficulty
	require.NoError(t, json.Unmarshal([]byte(`"hard"`), &d))
	assert.Equal(t, models.Hard, d)

	assert.ErrorIs(t, json.Unmarshal([]byte(`2`), &d), models.ErrInvalidDifficulty)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"insane"`), &d), models.ErrInvalidDifficulty)
}

func TestDifficultyDistribution_JSONRoundTrip(t *testing.T) {
	in := map[models.Difficulty]int{models.Easy: 1, models.Hard: 2}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Easy":1,"Hard":2}`, string(b))

	var out map[models.Difficulty]int
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
