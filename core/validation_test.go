package core

import (
	"errors"
	"testing"
)

func TestValidateJournal(t *testing.T) {
	valid := NewJournal("Journal of AI Research")
	valid.CiteScore = Score(4.1)

	mismatched := NewJournal("Journal of AI Research")
	mismatched.Id = 42

	tests := []struct {
		name    string
		journal *Journal
		wantErr error
	}{
		{
			name:    "valid journal",
			journal: valid,
			wantErr: nil,
		},
		{
			name:    "valid journal with unknown score",
			journal: NewJournal("Deep Learning Quarterly"),
			wantErr: nil,
		},
		{
			name:    "nil journal",
			journal: nil,
			wantErr: ErrInvalidJournal,
		},
		{
			name:    "empty query",
			journal: &Journal{Title: "Something"},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "id does not match query",
			journal: mismatched,
			wantErr: ErrIDMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJournal(tt.journal)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateJournal() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateJournal() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidJournal) {
				t.Errorf("ValidateJournal() error should wrap ErrInvalidJournal, got %v", err)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     *InboundMessage
		wantErr error
	}{
		{
			name:    "valid message",
			msg:     &InboundMessage{ID: "wamid.1", From: "15551234567", Body: "machine learning"},
			wantErr: nil,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name:    "missing sender",
			msg:     &InboundMessage{Body: "machine learning"},
			wantErr: ErrEmptySender,
		},
		{
			name:    "blank body",
			msg:     &InboundMessage{From: "15551234567", Body: "   "},
			wantErr: ErrEmptyBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMessage() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
