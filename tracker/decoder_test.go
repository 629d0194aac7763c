package tracker

import (
	"errors"
	"testing"
)

func TestParseSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    Sample
		wantErr error
	}{
		{
			name: "numeric id",
			line: "12,1.5,-2.25,0.0",
			want: Sample{ID: 12, Label: "12", X: 1.5, Y: -2.25, Z: 0},
		},
		{
			name: "leading digits with suffix",
			line: "7b,0,0,1",
			want: Sample{ID: 7, Label: "7b", Z: 1},
		},
		{
			name: "embedded digit run fallback",
			line: "spk12-left,3,4,5",
			want: Sample{ID: 12, Label: "spk12-left", X: 3, Y: 4, Z: 5},
		},
		{
			name: "multiple digit runs use the first",
			line: "mic3of8,0.5,0.5,0.5",
			want: Sample{ID: 3, Label: "mic3of8", X: 0.5, Y: 0.5, Z: 0.5},
		},
		{
			name: "surrounding whitespace",
			line: "  4 , 1 , 2 , 3 ",
			want: Sample{ID: 4, Label: "4", X: 1, Y: 2, Z: 3},
		},
		{
			name:    "no digits anywhere",
			line:    "left,0,0,0",
			wantErr: ErrNoIdentity,
		},
		{
			name:    "too few fields",
			line:    "1,2,3",
			wantErr: ErrBadSample,
		},
		{
			name:    "bad coordinate",
			line:    "1,2,x,3",
			wantErr: ErrBadSample,
		},
		{
			name:    "empty line",
			line:    "   ",
			wantErr: ErrEmptyPacket,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSample(tc.line)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got error %v, want %v", err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParsePacket(t *testing.T) {
	t.Parallel()

	t.Run("multiple lines", func(t *testing.T) {
		t.Parallel()

		data := []byte("1,0,0,0\n2,1,1,1\n\n3,2,2,2\n")

		samples, err := ParsePacket(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(samples) != 3 {
			t.Fatalf("got %d samples, want 3", len(samples))
		}

		for i, want := range []int{1, 2, 3} {
			if samples[i].ID != want {
				t.Errorf("sample %d ID = %d, want %d", i, samples[i].ID, want)
			}
		}
	})

	t.Run("empty packet", func(t *testing.T) {
		t.Parallel()

		_, err := ParsePacket(nil)
		if !errors.Is(err, ErrEmptyPacket) {
			t.Errorf("got %v, want ErrEmptyPacket", err)
		}

		_, err = ParsePacket([]byte("\n\n"))
		if !errors.Is(err, ErrEmptyPacket) {
			t.Errorf("whitespace-only: got %v, want ErrEmptyPacket", err)
		}
	})

	t.Run("malformed line aborts", func(t *testing.T) {
		t.Parallel()

		_, err := ParsePacket([]byte("1,0,0,0\nbroken\n"))
		if !errors.Is(err, ErrBadSample) {
			t.Errorf("got %v, want ErrBadSample", err)
		}
	})
}
