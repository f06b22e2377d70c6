package mailbox

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/joeshaw/envdecode"

	"github.com/spachava753/groupware/businesscard"
	"github.com/spachava753/groupware/contact"
)

const (
	headerItemID    = "X-Groupware-Item-Id"
	headerChangeKey = "X-Groupware-Change-Key"

	// CodeFolderNotFound is the response code returned when the target
	// mailbox does not exist.
	CodeFolderNotFound = "ErrorFolderNotFound"

	lineWidth = 76
)

// ErrFolderNotFound is returned by read operations on a missing mailbox.
var ErrFolderNotFound = errors.New("mailbox: folder not found")

// Config holds connection settings and credentials. ConfigFromEnv fills it
// from GROUPWARE_* environment variables.
//
// Both connections use implicit TLS unless the matching Plaintext field is
// set, so a zero Config never sends credentials in the clear.
type Config struct {
	IMAPAddr        string `env:"GROUPWARE_IMAP_ADDR,default=imap.gmail.com:993"`
	IMAPPlaintext   bool   `env:"GROUPWARE_IMAP_PLAINTEXT,default=false"`
	SMTPAddr        string `env:"GROUPWARE_SMTP_ADDR,default=smtp.gmail.com:465"`
	SMTPPlaintext   bool   `env:"GROUPWARE_SMTP_PLAINTEXT,default=false"`
	Address         string `env:"GROUPWARE_ADDRESS"`
	AppPassword     string `env:"GROUPWARE_APP_PASSWORD"`
	ContactsMailbox string `env:"GROUPWARE_CONTACTS_MAILBOX,default=Contacts"`
}

// ConfigFromEnv decodes Config from the environment and validates it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("mailbox: decoding environment failed: %w", err)
	}
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) normalized() Config {
	c.IMAPAddr = strings.TrimSpace(c.IMAPAddr)
	c.SMTPAddr = strings.TrimSpace(c.SMTPAddr)
	c.Address = strings.TrimSpace(c.Address)
	c.AppPassword = strings.ReplaceAll(c.AppPassword, " ", "")
	c.ContactsMailbox = strings.TrimSpace(c.ContactsMailbox)
	if c.ContactsMailbox == "" {
		c.ContactsMailbox = "Contacts"
	}
	return c
}

func (c Config) validate() error {
	for _, required := range []struct {
		name  string
		value string
	}{
		{"GROUPWARE_IMAP_ADDR", c.IMAPAddr},
		{"GROUPWARE_ADDRESS", c.Address},
		{"GROUPWARE_APP_PASSWORD", c.AppPassword},
	} {
		if required.value == "" {
			return fmt.Errorf("mailbox: %s is required", required.name)
		}
	}
	return nil
}

// Store keeps contacts as vCard messages in IMAP mailboxes. Each call opens
// its own connection.
type Store struct {
	cfg Config
	log *slog.Logger
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store for cfg.
func New(cfg Config, opts ...Option) (*Store, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Store{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromEnv is New with ConfigFromEnv.
func NewFromEnv(opts ...Option) (*Store, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// MailboxName resolves a folder to a mailbox name. The distinguished
// contacts folder maps to the configured contacts mailbox; other
// distinguished names and opaque ids are used as-is.
func (s *Store) MailboxName(folder contact.FolderID) string {
	if folder.IsDistinguished() && folder.Distinguished == contact.FolderContacts.Distinguished {
		return s.cfg.ContactsMailbox
	}
	return folder.String()
}

// CreateContactItem stores template as a new vCard message and reports the
// stored record in the service response shape. A missing mailbox is reported
// in the response, not as an error.
func (s *Store) CreateContactItem(folder contact.FolderID, template map[string]any) (contact.Response, error) {
	name := s.MailboxName(folder)

	imapClient, err := s.connectIMAP()
	if err != nil {
		return contact.Response{}, err
	}
	defer imapClient.Logout()

	exists, err := mailboxExists(imapClient, name)
	if err != nil {
		return contact.Response{}, err
	}
	if !exists {
		s.log.Warn("contact folder missing", "mailbox", name)
		return contact.Response{
			Status:  "Error",
			Code:    CodeFolderNotFound,
			Message: fmt.Sprintf("mailbox %q does not exist", name),
		}, nil
	}

	tree := maps.Clone(template)
	if tree == nil {
		tree = map[string]any{}
	}
	itemID := uuid.NewString()
	changeKey := uuid.NewString()
	tree[string(contact.FieldItemID)] = map[string]any{"id": itemID, "change_key": changeKey}

	raw, err := s.buildStoredMessage(contact.New(tree), itemID, changeKey)
	if err != nil {
		return contact.Response{}, err
	}
	if err := imapClient.Append(name, []string{imap.SeenFlag}, s.now(), bytes.NewBuffer(raw)); err != nil {
		return contact.Response{}, fmt.Errorf("mailbox: appending to %q failed: %w", name, err)
	}

	s.log.Info("contact stored", "mailbox", name, "item_id", itemID)
	return contact.Response{
		Status: contact.StatusSuccess,
		Items:  []map[string]any{{contact.TypeTag: tree}},
	}, nil
}

// EnsureFolder creates the folder's mailbox when it does not exist.
func (s *Store) EnsureFolder(folder contact.FolderID) error {
	name := s.MailboxName(folder)

	imapClient, err := s.connectIMAP()
	if err != nil {
		return err
	}
	defer imapClient.Logout()

	exists, err := mailboxExists(imapClient, name)
	if err != nil || exists {
		return err
	}
	if err := imapClient.Create(name); err != nil {
		return fmt.Errorf("mailbox: creating %q failed: %w", name, err)
	}
	s.log.Info("contact folder created", "mailbox", name)
	return nil
}

// Contacts returns every contact stored in the folder, in mailbox order.
// Messages that are not business cards are skipped.
func (s *Store) Contacts(folder contact.FolderID) ([]*contact.Contact, error) {
	name := s.MailboxName(folder)

	imapClient, err := s.connectIMAP()
	if err != nil {
		return nil, err
	}
	defer imapClient.Logout()

	exists, err := mailboxExists(imapClient, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}

	status, err := imapClient.Select(name, true)
	if err != nil {
		return nil, fmt.Errorf("mailbox: selecting %q failed: %w", name, err)
	}
	if status.Messages == 0 {
		return []*contact.Contact{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddRange(1, status.Messages)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, status.Messages)
	done := make(chan error, 1)
	go func() {
		done <- imapClient.Fetch(seqSet, items, messages)
	}()

	out := make([]*contact.Contact, 0, status.Messages)
	var parseErr error
	for msg := range messages {
		literal := msg.GetBody(section)
		if literal == nil || parseErr != nil {
			continue
		}
		raw, err := io.ReadAll(literal)
		if err != nil {
			parseErr = fmt.Errorf("mailbox: reading message %d failed: %w", msg.Uid, err)
			continue
		}
		trees, err := parseStoredMessage(raw)
		if err != nil {
			s.log.Warn("skipping unreadable contact message", "mailbox", name, "uid", msg.Uid, "error", err)
			continue
		}
		for _, tree := range trees {
			out = append(out, contact.New(tree))
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("mailbox: fetching %q failed: %w", name, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	s.log.Debug("contacts listed", "mailbox", name, "count", len(out))
	return out, nil
}

// ForwardBusinessCard mails the contact as a vCard attachment to every
// recipient.
func (s *Store) ForwardBusinessCard(c *contact.Contact, to []string) error {
	recipients := uniqueRecipients(to)
	if len(recipients) == 0 {
		return errors.New("mailbox: at least one recipient is required")
	}
	raw, err := s.buildForwardMessage(c, recipients)
	if err != nil {
		return err
	}

	smtpClient, err := s.connectSMTP()
	if err != nil {
		return err
	}
	defer smtpClient.Close()

	if err := smtpClient.Mail(s.cfg.Address, nil); err != nil {
		return fmt.Errorf("mailbox: MAIL FROM failed: %w", err)
	}
	for _, rcpt := range recipients {
		if err := smtpClient.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("mailbox: RCPT TO %q failed: %w", rcpt, err)
		}
	}
	writer, err := smtpClient.Data()
	if err != nil {
		return fmt.Errorf("mailbox: DATA failed: %w", err)
	}
	if _, err := writer.Write(raw); err != nil {
		return fmt.Errorf("mailbox: writing message failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("mailbox: finalizing message failed: %w", err)
	}
	if err := smtpClient.Quit(); err != nil {
		return fmt.Errorf("mailbox: QUIT failed: %w", err)
	}

	s.log.Info("business card forwarded", "item_id", c.ItemID(), "recipients", len(recipients))
	return nil
}

func (s *Store) buildStoredMessage(c *contact.Contact, itemID string, changeKey string) ([]byte, error) {
	var card bytes.Buffer
	if err := businesscard.Encode(&card, c); err != nil {
		return nil, fmt.Errorf("mailbox: %w", err)
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.Address),
		fmt.Sprintf("Subject: %s", encodeHeader(cardSubject(c))),
		fmt.Sprintf("Date: %s", s.now().Format(time.RFC1123Z)),
		fmt.Sprintf("Message-ID: <%s@groupware>", itemID),
		fmt.Sprintf("%s: %s", headerItemID, itemID),
		fmt.Sprintf("%s: %s", headerChangeKey, changeKey),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s; charset=UTF-8", businesscard.MediaType),
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + card.String()), nil
}

func parseStoredMessage(raw []byte) ([]map[string]any, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	mediaType, _, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if mediaType != businesscard.MediaType {
		return nil, fmt.Errorf("unexpected content type %q", mediaType)
	}

	drafts, err := businesscard.Decode(msg.Body)
	if err != nil {
		return nil, err
	}

	itemID := strings.TrimSpace(msg.Header.Get(headerItemID))
	changeKey := strings.TrimSpace(msg.Header.Get(headerChangeKey))
	trees := make([]map[string]any, 0, len(drafts))
	for _, draft := range drafts {
		tree := draft.Template()
		if itemID != "" {
			tree[string(contact.FieldItemID)] = map[string]any{"id": itemID, "change_key": changeKey}
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func (s *Store) buildForwardMessage(c *contact.Contact, recipients []string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("mailbox: contact is required")
	}
	var card bytes.Buffer
	if err := businesscard.Encode(&card, c); err != nil {
		return nil, fmt.Errorf("mailbox: %w", err)
	}
	subject := cardSubject(c)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("mailbox: building text part failed: %w", err)
	}
	fmt.Fprintf(textPart, "Business card for %s is attached.\r\n", subject)

	filename := attachmentName(subject)
	cardPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(businesscard.MediaType, map[string]string{"charset": "UTF-8", "name": filename})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("mailbox: building card part failed: %w", err)
	}
	if _, err := io.WriteString(cardPart, wrapBase64(card.Bytes())); err != nil {
		return nil, fmt.Errorf("mailbox: writing card part failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("mailbox: finalizing message failed: %w", err)
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.Address),
		fmt.Sprintf("To: %s", strings.Join(recipients, ", ")),
		fmt.Sprintf("Subject: %s", encodeHeader("Business card: "+subject)),
		fmt.Sprintf("Date: %s", s.now().Format(time.RFC1123Z)),
		fmt.Sprintf("Message-ID: <%s@groupware>", uuid.NewString()),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q", writer.Boundary()),
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body.String()), nil
}

func cardSubject(c *contact.Contact) string {
	details, _ := c.Details()
	for _, candidate := range []string{
		details.DisplayName,
		details.FileAs,
		strings.TrimSpace(details.GivenName + " " + details.Surname),
		details.CompanyName,
	} {
		if value := sanitizeHeader(candidate); value != "" {
			return value
		}
	}
	return "(unnamed contact)"
}

func attachmentName(subject string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		}
		return -1
	}, subject)
	if name == "" {
		name = "contact"
	}
	return name + ".vcf"
}

func encodeHeader(value string) string {
	return mime.QEncoding.Encode("utf-8", value)
}

func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func wrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var builder strings.Builder
	for len(encoded) > lineWidth {
		builder.WriteString(encoded[:lineWidth])
		builder.WriteString("\r\n")
		encoded = encoded[lineWidth:]
	}
	builder.WriteString(encoded)
	builder.WriteString("\r\n")
	return builder.String()
}

func uniqueRecipients(groups ...[]string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, group := range groups {
		for _, recipient := range group {
			recipient = strings.TrimSpace(recipient)
			if recipient == "" {
				continue
			}
			if _, ok := seen[recipient]; ok {
				continue
			}
			seen[recipient] = struct{}{}
			out = append(out, recipient)
		}
	}
	return out
}

func mailboxExists(imapClient *client.Client, name string) (bool, error) {
	ch := make(chan *imap.MailboxInfo, 8)
	done := make(chan error, 1)
	go func() {
		done <- imapClient.List("", name, ch)
	}()

	found := false
	for info := range ch {
		if info.Name == name {
			found = true
		}
	}
	if err := <-done; err != nil {
		return false, fmt.Errorf("mailbox: listing %q failed: %w", name, err)
	}
	return found, nil
}

func (s *Store) connectIMAP() (*client.Client, error) {
	var (
		imapClient *client.Client
		err        error
	)
	if s.cfg.IMAPPlaintext {
		imapClient, err = client.Dial(s.cfg.IMAPAddr)
	} else {
		imapClient, err = client.DialTLS(s.cfg.IMAPAddr, &tls.Config{ServerName: hostOf(s.cfg.IMAPAddr)})
	}
	if err != nil {
		return nil, fmt.Errorf("mailbox: IMAP dial failed: %w", err)
	}

	if err := imapClient.Login(s.cfg.Address, s.cfg.AppPassword); err != nil {
		imapClient.Logout()
		return nil, fmt.Errorf("mailbox: IMAP login failed: %w", err)
	}
	return imapClient, nil
}

func (s *Store) connectSMTP() (*smtp.Client, error) {
	if s.cfg.SMTPAddr == "" {
		return nil, errors.New("mailbox: GROUPWARE_SMTP_ADDR is required")
	}

	var smtpClient *smtp.Client
	if s.cfg.SMTPPlaintext {
		var err error
		smtpClient, err = smtp.Dial(s.cfg.SMTPAddr)
		if err != nil {
			return nil, fmt.Errorf("mailbox: SMTP dial failed: %w", err)
		}
	} else {
		conn, err := tls.Dial("tcp", s.cfg.SMTPAddr, &tls.Config{ServerName: hostOf(s.cfg.SMTPAddr)})
		if err != nil {
			return nil, fmt.Errorf("mailbox: SMTP TLS dial failed: %w", err)
		}
		smtpClient = smtp.NewClient(conn)
	}

	auth := sasl.NewPlainClient("", s.cfg.Address, s.cfg.AppPassword)
	if err := smtpClient.Auth(auth); err != nil {
		smtpClient.Close()
		return nil, fmt.Errorf("mailbox: SMTP auth failed: %w", err)
	}
	return smtpClient, nil
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
