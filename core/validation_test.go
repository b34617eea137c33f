package core

import (
	"errors"
	"testing"
)

type brokenEmbedding struct{}

func (brokenEmbedding) Vector() (Vector, error) { return nil, ErrRecordParse }

func TestValidateQARecord(t *testing.T) {
	valid := func() *QARecord {
		return &QARecord{
			Id:        "test-1",
			Question:  "What is Perso.ai?",
			Answer:    "An AI video platform.",
			Embedding: Vector{0.1, 0.2},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *QARecord) *QARecord
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *QARecord) *QARecord { return r },
			wantErr: nil,
		},
		{
			name:    "nil record",
			mutate:  func(*QARecord) *QARecord { return nil },
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty id",
			mutate:  func(r *QARecord) *QARecord { r.Id = ""; return r },
			wantErr: ErrEmptyID,
		},
		{
			name:    "blank question",
			mutate:  func(r *QARecord) *QARecord { r.Question = "  \t"; return r },
			wantErr: ErrEmptyQuestion,
		},
		{
			name:    "empty answer",
			mutate:  func(r *QARecord) *QARecord { r.Answer = ""; return r },
			wantErr: ErrEmptyAnswer,
		},
		{
			name:    "nil embedding",
			mutate:  func(r *QARecord) *QARecord { r.Embedding = nil; return r },
			wantErr: ErrMissingEmbedding,
		},
		{
			name:    "empty embedding",
			mutate:  func(r *QARecord) *QARecord { r.Embedding = Vector{}; return r },
			wantErr: ErrMissingEmbedding,
		},
		{
			name:    "undecodable embedding",
			mutate:  func(r *QARecord) *QARecord { r.Embedding = brokenEmbedding{}; return r },
			wantErr: ErrRecordParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQARecord(tt.mutate(valid()))

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQARecord() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateQARecord() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQARecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("ValidateQARecord() error = %v, want wrapped %v", err, ErrInvalidRecord)
			}
		})
	}
}

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "surrounding whitespace", input: "  hello there \n", want: "hello there"},
		{name: "empty", input: "", wantErr: ErrEmptyQuestion},
		{name: "whitespace only", input: " \t\n ", wantErr: ErrEmptyQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeQuestion(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeQuestion() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeQuestion() = %q, want %q", got, tt.want)
			}
		})
	}
}
