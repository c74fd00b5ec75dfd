package handler

import (
	"encoding/json"
	"strconv"
)

// OptionalID is a nullable foreign key in a partial update. It tells an absent
// field apart from an explicit null, which clears the reference.
type OptionalID struct {
	Set   bool
	Value *uint64
}

// UnmarshalJSON records the field as present; null leaves Value nil.
func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	if string(b) == "null" {
		return nil
	}

	var id uint64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}

	o.Value = &id

	return nil
}

// UnmarshalText decodes form values; an empty value clears the reference.
func (o *OptionalID) UnmarshalText(b []byte) error {
	o.Set = true
	o.Value = nil

	if len(b) == 0 {
		return nil
	}

	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return err
	}

	o.Value = &id

	return nil
}

// Change maps o onto the controllers' partial update convention:
// nil leaves the reference alone and a pointer to 0 clears it.
func (o OptionalID) Change() *uint64 {
	if !o.Set {
		return nil
	}

	if o.Value == nil {
		var none uint64

		return &none
	}

	return o.Value
}
