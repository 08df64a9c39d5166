package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexBool decodes JSON booleans as well as "true"/"false" strings, which is
// how radio-button forms post them.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = FlexBool(v)
	case string:
		if v == "" {
			*b = false
			return nil
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*b = FlexBool(parsed)
	default:
		return fmt.Errorf("invalid boolean %s", string(data))
	}
	return nil
}

// SubmitRatingRequest is the payload for rating a subject. CitraID accepts the
// subject id or its course code. CourseCode is optional and must match the
// resolved subject when sent.
type SubmitRatingRequest struct {
	CitraID             string   `json:"citraId" validate:"required"`
	CourseCode          string   `json:"courseCode"`
	Difficulty          int      `json:"difficulty" validate:"required,min=1,max=5"`
	Quality             *int     `json:"quality" validate:"omitempty,min=1,max=5"`
	Mode                string   `json:"mode" validate:"required,oneof=Online Face-to-Face"`
	TakeAgain           FlexBool `json:"takeAgain"`
	SlidesProvided      FlexBool `json:"slidesProvided"`
	AttendanceMandatory FlexBool `json:"attendanceMandatory"`
	Grade               string   `json:"grade" validate:"required,oneof=A A- B+ B B- C+ C D F"`
	Keywords            []string `json:"keywords" validate:"max=3,dive,required"`
	Review              string   `json:"review" validate:"required,max=2000"`
}

// MessageResponse is returned by write endpoints that expose no identifier.
type MessageResponse struct {
	Message string `json:"message"`
}
