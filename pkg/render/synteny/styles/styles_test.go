package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

func TestSimpleRender(t *testing.T) {
	tests := []struct {
		name  string
		shape layout.Shape
		want  []string
	}{
		{
			name:  "bar",
			shape: layout.Shape{Kind: layout.KindRect, Class: layout.ClassBar, ID: "idx0", Row: "c1", X: 10, Y: 20.5, W: 30, H: 15, Fill: "#ff0000", Text: "K00001"},
			want:  []string{`<rect id="idx0"`, `class="bar idK00001 ordc1"`, `x="10.00"`, `y="20.50"`, `width="30.00"`, `fill="#ff0000"`},
		},
		{
			name:  "hidden outline",
			shape: layout.Shape{Kind: layout.KindPath, Class: layout.ClassStroke, Points: []layout.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}, Stroke: "#5d5d5d", Hidden: true},
			want:  []string{`d="M0.00 0.00 L5.00 0.00 L5.00 5.00 Z"`, `fill="none"`, `stroke="#5d5d5d"`, `opacity="0"`},
		},
		{
			name:  "escaped text",
			shape: layout.Shape{Kind: layout.KindText, Class: layout.ClassName, X: 1, Y: 2, Text: "a<b&c", Fill: "#000"},
			want:  []string{`>a&lt;b&amp;c</text>`, `class="notation"`},
		},
		{
			name:  "circle",
			shape: layout.Shape{Kind: layout.KindCircle, Class: layout.ClassTrack, X: 3, Y: 4, R: 7, Fill: "#00ff00"},
			want:  []string{`<circle`, `cx="3.00"`, `r="7.00"`},
		},
		{
			name:  "line",
			shape: layout.Shape{Kind: layout.KindLine, Class: layout.ClassScale, X: 0, Y: 1, X2: 9, Y2: 1, Stroke: "#5d5d5d"},
			want:  []string{`<line`, `x2="9.00"`, `stroke="#5d5d5d"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Render(Simple{}, &buf, tt.shape)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q\n%s", w, out)
				}
			}
		})
	}
}

func TestPrintSkipsHidden(t *testing.T) {
	var buf bytes.Buffer
	Render(Print{}, &buf, layout.Shape{Kind: layout.KindPath, Class: layout.ClassRowFrame, Points: []layout.Point{{X: 1, Y: 1}}, Hidden: true})
	if buf.Len() != 0 {
		t.Errorf("hidden shape rendered: %s", buf.String())
	}

	buf.Reset()
	Render(Print{}, &buf, layout.Shape{Kind: layout.KindPath, Class: layout.ClassArrow, Points: []layout.Point{{X: 1, Y: 1}}, Fill: "#123456"})
	if !strings.Contains(buf.String(), `stroke="#123456"`) {
		t.Errorf("arrow should be outlined in its fill color: %s", buf.String())
	}
}

func TestByName(t *testing.T) {
	for _, name := range append(Names(), "") {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("handdrawn"); ok {
		t.Error("ByName(handdrawn) should fail")
	}
}

func TestPathDataEmpty(t *testing.T) {
	if got := PathData(nil); got != "" {
		t.Errorf("PathData(nil) = %q", got)
	}
}
