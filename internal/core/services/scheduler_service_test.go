package services

import (
	"testing"

	"github.com/robfig/cron/v3"
)

func TestJobSpecsParse(t *testing.T) {
	for _, spec := range []string{campaignDispatchSpec, tokenCleanupSpec} {
		if _, err := cron.ParseStandard(spec); err != nil {
			t.Errorf("ParseStandard(%q) error = %v", spec, err)
		}
	}
}
