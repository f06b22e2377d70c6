package mailbox

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"github.com/spachava753/groupware/contact"
)

const (
	liveTestFlagEnv = "GROUPWARE_LIVE_TEST"
	liveTestToEnv   = "GROUPWARE_TEST_RECIPIENT"
)

func TestLiveContactLifecycle(t *testing.T) {
	if os.Getenv(liveTestFlagEnv) != "1" {
		t.Skipf("set %s=1 to run live mailbox integration tests", liveTestFlagEnv)
	}

	store, err := NewFromEnv()
	if err != nil {
		t.Skipf("live mailbox configuration unavailable: %v", err)
	}

	be.Err(t, store.EnsureFolder(contact.FolderContacts), nil)

	surname := fmt.Sprintf("Live%d", time.Now().UnixNano())
	created, err := contact.Create(store, contact.Draft{
		GivenName: "Groupware",
		Surname:   surname,
		EmailAddresses: []contact.LabeledValue{{
			Label: "EmailAddress1",
			Value: "live-test@example.com",
		}},
	}.Template(), contact.FolderContacts)
	be.Err(t, err, nil)

	listed, err := store.Contacts(contact.FolderContacts)
	be.Err(t, err, nil)

	found := false
	for _, c := range listed {
		if c.ItemID() == created.ItemID() {
			found = true
			details, err := c.Details()
			be.Err(t, err, nil)
			be.Equal(t, details.Surname, surname)
		}
	}
	be.True(t, found)

	recipient := strings.TrimSpace(os.Getenv(liveTestToEnv))
	if recipient == "" {
		recipient = store.cfg.Address
	}
	be.Err(t, store.ForwardBusinessCard(created, []string{recipient}), nil)
}
