package bridge

import (
	"encoding/json"
	"fmt"
)

// Script builders. Each returns complete JXA source with arguments embedded
// as JSON-quoted literals, so hostile input cannot break out of a string.
// Builders are pure functions; the Runner is the only thing that executes.

// jsStr renders s as a JavaScript string literal.
func jsStr(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail; keep the script valid anyway.
		return `""`
	}
	return string(b)
}

const scriptPrelude = `const Mail = Application("Mail");
Mail.includeStandardAdditions = true;
`

// mailboxLookup emits a `mb` binding for (account, mailbox). The synthetic
// Local account maps to Mail.app's container-less top-level mailboxes.
func mailboxLookup(accountName, mailboxName string) string {
	return fmt.Sprintf(`const acctName = %s;
const mbName = %s;
let mb;
if (acctName === "Local") {
  mb = Mail.mailboxes.byName(mbName);
} else {
  mb = Mail.accounts.byName(acctName).mailboxes.byName(mbName);
}
mb.name();
`, jsStr(accountName), jsStr(mailboxName))
}

// messageLookup emits `msg` bound to the message with the given id inside `mb`.
// Throws "message not found" when the id is absent.
func messageLookup(messageID string) string {
	return fmt.Sprintf(`const hits = mb.messages.whose({id: Number(%s)})();
if (hits.length === 0) { throw new Error("message not found"); }
const msg = hits[0];
`, jsStr(messageID))
}

const messageHeaderJS = `({
  id: String(m.id()),
  subject: m.subject() || "",
  sender: m.sender() || "",
  dateReceived: String(m.dateReceived()),
  read: !!m.readStatus(),
  flagged: !!m.flaggedStatus()
})`

func healthScript() string {
	return scriptPrelude + `JSON.stringify({name: Mail.name(), running: Mail.running()});
`
}

func launchScript() string {
	return scriptPrelude + `Mail.launch();
JSON.stringify({launched: true});
`
}

func listAccountsScript() string {
	return scriptPrelude + `const out = [];
for (const a of Mail.accounts()) {
  out.push({name: a.name(), enabled: !!a.enabled()});
}
JSON.stringify(out);
`
}

func listMailboxesScript(accountName string) string {
	return scriptPrelude + fmt.Sprintf(`const acct = Mail.accounts.byName(%s);
JSON.stringify(acct.mailboxes().map(mb => mb.name()));
`, jsStr(accountName))
}

func listLocalMailboxesScript() string {
	return scriptPrelude + `JSON.stringify(Mail.mailboxes().map(mb => mb.name()));
`
}

func mailboxStatsScript(accountName, mailboxName string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) +
		`JSON.stringify({total: mb.messages.length, unread: mb.unreadCount()});
`
}

func listMessagesScript(accountName, mailboxName string, max int) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) +
		fmt.Sprintf(`const msgs = mb.messages;
const n = Math.min(%d, msgs.length);
const out = [];
for (let i = 0; i < n; i++) {
  const m = msgs[i];
  out.push(%s);
}
JSON.stringify(out);
`, max, messageHeaderJS)
}

func findMessageScript(accountName, mailboxName, messageID string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		fmt.Sprintf(`const m = msg;
JSON.stringify(%s);
`, messageHeaderJS)
}

func readMessageScript(accountName, mailboxName, messageID string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		fmt.Sprintf(`const m = msg;
const rec = %s;
rec.content = m.content() || "";
JSON.stringify(rec);
`, messageHeaderJS)
}

func setReadStateScript(accountName, mailboxName, messageID string, read bool) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		fmt.Sprintf(`msg.readStatus = %t;
JSON.stringify({ok: true});
`, read)
}

func moveMessageScript(accountName, mailboxName, messageID, targetAccount, targetMailbox string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		fmt.Sprintf(`let target;
if (%s === "Local") {
  target = Mail.mailboxes.byName(%s);
} else {
  target = Mail.accounts.byName(%s).mailboxes.byName(%s);
}
Mail.move(msg, {to: target});
JSON.stringify({ok: true});
`, jsStr(targetAccount), jsStr(targetMailbox), jsStr(targetAccount), jsStr(targetMailbox))
}

func copyMessageScript(accountName, mailboxName, messageID, targetAccount, targetMailbox string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		fmt.Sprintf(`let target;
if (%s === "Local") {
  target = Mail.mailboxes.byName(%s);
} else {
  target = Mail.accounts.byName(%s).mailboxes.byName(%s);
}
Mail.duplicate(msg, {to: target});
JSON.stringify({ok: true});
`, jsStr(targetAccount), jsStr(targetMailbox), jsStr(targetAccount), jsStr(targetMailbox))
}

func deleteMessageScript(accountName, mailboxName, messageID string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		`Mail.delete(msg);
JSON.stringify({ok: true});
`
}

func archiveMessageScript(accountName, mailboxName, messageID string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		`if (typeof Mail.archive !== "function") {
  JSON.stringify({unsupported: true});
} else {
  Mail.archive(msg);
  JSON.stringify({ok: true});
}
`
}

func newDraftScript(toAddress, subject, body string) string {
	return scriptPrelude + fmt.Sprintf(`const draft = Mail.OutgoingMessage({
  subject: %s,
  content: %s,
  visible: true
});
Mail.outgoingMessages.push(draft);
const to = %s;
if (to !== "") {
  draft.toRecipients.push(Mail.Recipient({address: to}));
}
JSON.stringify({id: String(draft.id())});
`, jsStr(subject), jsStr(body), jsStr(toAddress))
}

func replyDraftScript(accountName, mailboxName, messageID string) string {
	return scriptPrelude + mailboxLookup(accountName, mailboxName) + messageLookup(messageID) +
		`const reply = Mail.reply(msg, {openingWindow: true});
JSON.stringify({id: String(reply.id())});
`
}

// draftLookup emits `draft` bound to the outgoing message with the given id.
func draftLookup(draftID string) string {
	return fmt.Sprintf(`const wanted = %s;
let draft = null;
for (const d of Mail.outgoingMessages()) {
  if (String(d.id()) === wanted) { draft = d; break; }
}
if (draft === null) { throw new Error("draft not found"); }
`, jsStr(draftID))
}

func draftContentScript(draftID string) string {
	return scriptPrelude + draftLookup(draftID) +
		`JSON.stringify({content: String(draft.content() || "")});
`
}

func setDraftContentScript(draftID, content string) string {
	return scriptPrelude + draftLookup(draftID) +
		fmt.Sprintf(`draft.content = %s;
JSON.stringify({ok: true});
`, jsStr(content))
}

func attachFileScript(draftID, path string) string {
	return scriptPrelude + draftLookup(draftID) +
		fmt.Sprintf(`draft.attachments.push(Mail.Attachment({fileName: Path(%s)}));
JSON.stringify({ok: true});
`, jsStr(path))
}
