package guardrails

import "testing"

func TestValidate_AllowsCleanPrompt(t *testing.T) {
	g := New(nil)
	res := g.Validate("What is the weather like in Lisbon today?")
	if !res.Allowed {
		t.Fatalf("expected prompt to be allowed, got reason %q", res.Reason)
	}
	if res.Reason != "" {
		t.Fatalf("expected empty reason on allow, got %q", res.Reason)
	}
}

func TestValidate_BlocksDefaultTokens(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
	}{
		{"uppercase SSN", "Please store my SSN safely."},
		{"lowercase ssn", "please store my ssn safely."},
		{"mixed case credit card", "Here is my Credit Card number."},
	}
	g := New(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Validate(tc.prompt)
			if res.Allowed {
				t.Fatalf("expected prompt %q to be blocked", tc.prompt)
			}
			if res.Reason == "" {
				t.Fatalf("expected non-empty reason for blocked prompt")
			}
		})
	}
}

func TestValidate_WordBoundaryAvoidsFalsePositive(t *testing.T) {
	g := New(nil)
	res := g.Validate("classnames should not trip the guardrail")
	if !res.Allowed {
		t.Fatalf("expected substring-only match to be allowed, got reason %q", res.Reason)
	}
}

func TestValidate_CustomTokenList(t *testing.T) {
	g := New([]string{"password"})
	blocked := g.Validate("my password is hunter2")
	if blocked.Allowed {
		t.Fatalf("expected custom token to block prompt")
	}
	allowed := g.Validate("my SSN is 123-45-6789")
	if !allowed.Allowed {
		t.Fatalf("expected default token SSN to no longer apply once custom list given")
	}
}

func TestValidate_Concurrent(t *testing.T) {
	g := New(nil)
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			if i%2 == 0 {
				g.Validate("nothing to see here")
			} else {
				g.Validate("my SSN is leaking")
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		<-done
	}
}
