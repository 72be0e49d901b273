package trivia

import (
	"errors"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name     string
		schema   *Schema
		body     string
		wantCode ResponseCode
		wantErr  bool
	}{
		{
			name:     "questions success",
			schema:   questionsSchema,
			body:     `{"response_code":0,"results":[{"category":"History","type":"multiple","difficulty":"easy","question":"Q?","correct_answer":"A","incorrect_answers":["B","C","D"]}]}`,
			wantCode: CodeSuccess,
		},
		{
			name:     "questions no results",
			schema:   questionsSchema,
			body:     `{"response_code":1,"results":[]}`,
			wantCode: CodeNoResults,
		},
		{
			name:     "questions token empty without results",
			schema:   questionsSchema,
			body:     `{"response_code":4}`,
			wantCode: CodeTokenEmpty,
		},
		{
			name:    "questions missing response code",
			schema:  questionsSchema,
			body:    `{"results":[]}`,
			wantErr: true,
		},
		{
			name:    "question missing difficulty",
			schema:  questionsSchema,
			body:    `{"response_code":0,"results":[{"category":"History","question":"Q?","correct_answer":"A","incorrect_answers":[]}]}`,
			wantErr: true,
		},
		{
			name:    "incorrect answers of wrong type",
			schema:  questionsSchema,
			body:    `{"response_code":0,"results":[{"category":"History","difficulty":"easy","question":"Q?","correct_answer":"A","incorrect_answers":[1,2]}]}`,
			wantErr: true,
		},
		{
			name:     "categories without response code",
			schema:   categoriesSchema,
			body:     `{"trivia_categories":[{"id":9,"name":"General Knowledge"}]}`,
			wantCode: CodeSuccess,
		},
		{
			name:    "categories with string id",
			schema:  categoriesSchema,
			body:    `{"trivia_categories":[{"id":"9","name":"General Knowledge"}]}`,
			wantErr: true,
		},
		{
			name:     "token",
			schema:   tokenSchema,
			body:     `{"response_code":0,"token":"abc"}`,
			wantCode: CodeSuccess,
		},
		{
			name:    "not JSON",
			schema:  tokenSchema,
			body:    `<html>oops</html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := validatePayload(tt.schema, []byte(tt.body))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %v", err)
				}
				if string(inv.Content) != tt.body {
					t.Errorf("Content = %q, want raw body", inv.Content)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.ResponseCode != tt.wantCode {
				t.Errorf("ResponseCode = %d, want %d", env.ResponseCode, tt.wantCode)
			}
			if string(env.Body) != tt.body {
				t.Errorf("Body not preserved")
			}
		})
	}
}

func TestGetCompiledSchema_Caches(t *testing.T) {
	a, err := getCompiledSchema(tokenSchema)
	if err != nil {
		t.Fatal(err)
	}
	b, err := getCompiledSchema(tokenSchema)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the cached schema to be reused")
	}
}
