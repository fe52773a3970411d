package cmd

import (
	"testing"

	"curse-update-proxy/config"
	"curse-update-proxy/curseforge"
)

func TestNewServiceResolutionStrategy(t *testing.T) {
	client := &curseforge.Client{BaseURL: "http://localhost", UserAgent: "test"}

	tests := []struct {
		strategy     string
		wantResolver bool
	}{
		{config.StrategyArchive, true},
		{config.StrategyFilename, false},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			svc := newService(config.Config{ResolutionStrategy: tt.strategy}, client)
			if got := svc.Aggregator.Resolver != nil; got != tt.wantResolver {
				t.Errorf("Resolver set = %v, want %v", got, tt.wantResolver)
			}
			if svc.Mods == nil {
				t.Error("Expected the client to be wired as the mod source")
			}
		})
	}
}

func TestNewServiceAllowedAuthor(t *testing.T) {
	svc := newService(config.Config{ResolutionStrategy: config.StrategyFilename, AllowedAuthor: "Zarkov"}, &curseforge.Client{})
	if svc.AllowedAuthor != "Zarkov" {
		t.Errorf("AllowedAuthor = %q, want Zarkov", svc.AllowedAuthor)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "inspect": false, "jar": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}
