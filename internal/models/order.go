package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusGenerating  Status = "generating"
	StatusImagesReady Status = "images_ready"
	StatusPDFReady    Status = "pdf_ready"
	StatusSent        Status = "sent"
)

var statusRank = map[Status]int{
	StatusGenerating:  0,
	StatusImagesReady: 1,
	StatusPDFReady:    2,
	StatusSent:        3,
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := statusRank[st]
	return st, ok
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes strictly earlier in the lifecycle than other.
// Unknown statuses sort before generating.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// Advance returns the later of s and next. Status never moves backwards.
func (s Status) Advance(next Status) Status {
	if next.rank() > s.rank() {
		return next
	}
	return s
}

func (s Status) rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// ImageSlotCount is the number of candidate images produced per order.
const ImageSlotCount = 4

var (
	ErrSlotOutOfRange = errors.New("image index out of range")
	ErrSlotEmpty      = errors.New("image not found")
)

// ImageSlots holds the candidate image URLs by ordinal position. An empty
// string marks a slot the generator has not populated.
type ImageSlots [ImageSlotCount]string

func CheckSlot(index int) error {
	if index < 0 || index >= ImageSlotCount {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}
	return nil
}

func (s ImageSlots) Get(index int) (string, error) {
	if err := CheckSlot(index); err != nil {
		return "", err
	}
	if s[index] == "" {
		return "", fmt.Errorf("%w: slot %d", ErrSlotEmpty, index+1)
	}
	return s[index], nil
}

func (s ImageSlots) Count() int {
	n := 0
	for _, url := range s {
		if url != "" {
			n++
		}
	}
	return n
}

func (s ImageSlots) Populated() []string {
	urls := make([]string, 0, ImageSlotCount)
	for _, url := range s {
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// Selection is the primary image chosen for a proposal plus the remaining
// populated slots in their original order.
type Selection struct {
	URL        string
	Index      int
	Alternates []string
}

func (s ImageSlots) Select(index int) (Selection, error) {
	url, err := s.Get(index)
	if err != nil {
		return Selection{}, err
	}

	alternates := make([]string, 0, ImageSlotCount-1)
	for i, u := range s {
		if i == index || u == "" {
			continue
		}
		alternates = append(alternates, u)
	}

	return Selection{URL: url, Index: index, Alternates: alternates}, nil
}

// MarshalJSON encodes all four slots, with null for empty ones.
func (s ImageSlots) MarshalJSON() ([]byte, error) {
	out := make([]*string, ImageSlotCount)
	for i := range s {
		if s[i] != "" {
			url := s[i]
			out[i] = &url
		}
	}
	return json.Marshal(out)
}

func (s *ImageSlots) UnmarshalJSON(data []byte) error {
	var in []*string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in) > ImageSlotCount {
		return fmt.Errorf("expected at most %d images, got %d", ImageSlotCount, len(in))
	}
	*s = ImageSlots{}
	for i, url := range in {
		if url != nil {
			s[i] = *url
		}
	}
	return nil
}

type Order struct {
	ID              string
	Client          string
	Email           string
	Demande         string
	Phone           string
	Boutique        string
	Images          ImageSlots
	ImageCollection string
	PDF             string
	Status          Status
	SelectedImage   *int
	CreatedAt       time.Time
}

// EffectiveStatus is the later of the stored status and the status implied
// by the populated fields.
func (o *Order) EffectiveStatus() Status {
	st := o.Status
	if !st.Valid() {
		st = StatusGenerating
	}
	if o.Images.Count() > 0 {
		st = st.Advance(StatusImagesReady)
	}
	if o.PDF != "" {
		st = st.Advance(StatusPDFReady)
	}
	return st
}

// NewOrder holds the intake fields of an order before the store assigns an id.
type NewOrder struct {
	Client   string
	Email    string
	Demande  string
	Phone    string
	Boutique string
}

// OrderPatch is a partial update. Nil fields and absent slots are left alone.
type OrderPatch struct {
	Images          map[int]string
	ImageCollection *string
	PDF             *string
	Status          *Status
	SelectedImage   *int
}

func (p OrderPatch) IsEmpty() bool {
	return len(p.Images) == 0 && p.ImageCollection == nil && p.PDF == nil &&
		p.Status == nil && p.SelectedImage == nil
}

func (p OrderPatch) Validate() error {
	for i := range p.Images {
		if err := CheckSlot(i); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.SelectedImage != nil {
		if err := CheckSlot(*p.SelectedImage); err != nil {
			return err
		}
	}
	return nil
}

// KeepAdvancingStatus clears the patch status unless it moves past current.
// Stores that write fields directly call it before sending the update.
func (p *OrderPatch) KeepAdvancingStatus(current Status) {
	if p.Status != nil && !current.Before(*p.Status) {
		p.Status = nil
	}
}

// Apply writes the patch onto o. Status only advances.
func (p OrderPatch) Apply(o *Order) {
	for i, url := range p.Images {
		o.Images[i] = url
	}
	if p.ImageCollection != nil {
		o.ImageCollection = *p.ImageCollection
	}
	if p.PDF != nil {
		o.PDF = *p.PDF
	}
	if p.Status != nil {
		o.Status = o.Status.Advance(*p.Status)
	}
	if p.SelectedImage != nil {
		idx := *p.SelectedImage
		o.SelectedImage = &idx
	}
}

func StatusPtr(s Status) *Status { return &s }

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }
