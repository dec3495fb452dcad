package domain

import "testing"

func TestStrokeValidate(t *testing.T) {
	start := &Point{X: 0, Y: 0}
	end := &Point{X: 10, Y: 10}

	tests := []struct {
		name   string
		stroke Stroke
		wantOK bool
	}{
		{"pen with points", Stroke{ID: "s", Tool: ToolPen, UserID: "u", Points: []Point{{1, 1}}}, true},
		{"pen without points", Stroke{ID: "s", Tool: ToolPen, UserID: "u"}, false},
		{"eraser with points", Stroke{ID: "s", Tool: ToolEraser, UserID: "u", Points: []Point{{1, 1}}}, true},
		{"line with endpoints", Stroke{ID: "s", Tool: ToolLine, UserID: "u", StartPoint: start, EndPoint: end}, true},
		{"line missing end", Stroke{ID: "s", Tool: ToolLine, UserID: "u", StartPoint: start}, false},
		{"rectangle with endpoints", Stroke{ID: "s", Tool: ToolRectangle, UserID: "u", StartPoint: start, EndPoint: end}, true},
		{"circle with endpoints", Stroke{ID: "s", Tool: ToolCircle, UserID: "u", StartPoint: start, EndPoint: end}, true},
		{"text with content", Stroke{ID: "s", Tool: ToolText, UserID: "u", StartPoint: start, Text: "hi"}, true},
		{"text without content", Stroke{ID: "s", Tool: ToolText, UserID: "u", StartPoint: start}, false},
		{"unknown tool", Stroke{ID: "s", Tool: "spraycan", UserID: "u"}, false},
		{"missing id", Stroke{Tool: ToolPen, UserID: "u", Points: []Point{{1, 1}}}, false},
		{"missing user", Stroke{ID: "s", Tool: ToolPen, Points: []Point{{1, 1}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stroke.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStrokeFreehand(t *testing.T) {
	if !(Stroke{Tool: ToolPen}).Freehand() {
		t.Error("pen should be freehand")
	}
	if !(Stroke{Tool: ToolEraser}).Freehand() {
		t.Error("eraser should be freehand")
	}
	if (Stroke{Tool: ToolRectangle}).Freehand() {
		t.Error("rectangle should not be freehand")
	}
}

func TestUserValid(t *testing.T) {
	if (User{}).Valid() {
		t.Error("empty user should be invalid")
	}
	if (User{ID: "u1"}).Valid() {
		t.Error("user without name should be invalid")
	}
	if !(User{ID: "u1", Name: "Ada"}).Valid() {
		t.Error("user with id and name should be valid")
	}
}
