package mailer

import (
	"fmt"
	"html"
)

func wrap(title, intro, detail string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif">
<h2>%s</h2>
<p>%s</p>
%s
<p>— The NFT Market team</p>
</body></html>`, html.EscapeString(title), intro, detail)
}

func greeting(name string) string {
	if name == "" {
		return "Hi,"
	}
	return "Hi " + html.EscapeString(name) + ","
}

func (m *Mailer) DepositSubmitted(to, name, amount, network string) {
	body := wrap("Deposit received",
		greeting(name),
		fmt.Sprintf("<p>Your deposit of <strong>%s %s</strong> was received and is pending review. We will notify you once it has been processed.</p>",
			html.EscapeString(amount), html.EscapeString(network)))
	m.deliver(to, "Your deposit is pending review", body)
}

func (m *Mailer) DepositApproved(to, name, amount, network string) {
	body := wrap("Deposit approved",
		greeting(name),
		fmt.Sprintf("<p>Your deposit of <strong>%s %s</strong> has been approved and credited to your balance.</p>",
			html.EscapeString(amount), html.EscapeString(network)))
	m.deliver(to, "Your deposit was approved", body)
}

// DepositDeclined shows the admin note verbatim, even when empty.
func (m *Mailer) DepositDeclined(to, name, amount, network, adminNote string) {
	body := wrap("Deposit declined",
		greeting(name),
		fmt.Sprintf("<p>Your deposit of <strong>%s %s</strong> was declined.</p><p>Reason: %s</p>",
			html.EscapeString(amount), html.EscapeString(network), html.EscapeString(adminNote)))
	m.deliver(to, "Your deposit was declined", body)
}

func (m *Mailer) WithdrawalApproved(to, name, amount, network, withdrawalType string) {
	detail := fmt.Sprintf("<p>Your withdrawal of <strong>%s %s</strong> has been approved.</p>",
		html.EscapeString(amount), html.EscapeString(network))
	if withdrawalType == "on-chain" {
		detail += "<p>On-chain transfers may take up to 30 minutes to arrive.</p>"
	}
	body := wrap("Withdrawal approved", greeting(name), detail)
	m.deliver(to, "Your withdrawal was approved", body)
}

func (m *Mailer) WithdrawalDeclined(to, name, amount, network, adminNote string) {
	body := wrap("Withdrawal declined",
		greeting(name),
		fmt.Sprintf("<p>Your withdrawal of <strong>%s %s</strong> was declined.</p><p>Reason: %s</p>",
			html.EscapeString(amount), html.EscapeString(network), html.EscapeString(adminNote)))
	m.deliver(to, "Your withdrawal was declined", body)
}

func (m *Mailer) InternalTransferReceived(to, name, amount, network, senderName string) {
	body := wrap("You received a transfer",
		greeting(name),
		fmt.Sprintf("<p><strong>%s %s</strong> was credited to your balance from %s.</p>",
			html.EscapeString(amount), html.EscapeString(network), html.EscapeString(senderName)))
	m.deliver(to, "You received a transfer", body)
}

func (m *Mailer) NFTSubmitted(to, name, nftName string) {
	body := wrap("NFT minted",
		greeting(name),
		fmt.Sprintf("<p>Your NFT <strong>%s</strong> was minted and is pending review.</p>",
			html.EscapeString(nftName)))
	m.deliver(to, "Your NFT is pending review", body)
}

func (m *Mailer) NFTApproved(to, name, nftName, mintFee string) {
	body := wrap("NFT approved",
		greeting(name),
		fmt.Sprintf("<p>Your NFT <strong>%s</strong> has been approved and listed. A mint fee of %s WETH was charged.</p>",
			html.EscapeString(nftName), html.EscapeString(mintFee)))
	m.deliver(to, "Your NFT was approved", body)
}

// NFTDeclined falls back to a generic reason when the admin left no note.
func (m *Mailer) NFTDeclined(to, name, nftName, adminNote string) {
	reason := adminNote
	if reason == "" {
		reason = "Your submission did not meet the marketplace listing guidelines."
	}
	body := wrap("NFT declined",
		greeting(name),
		fmt.Sprintf("<p>Your NFT <strong>%s</strong> was declined.</p><p>Reason: %s</p>",
			html.EscapeString(nftName), html.EscapeString(reason)))
	m.deliver(to, "Your NFT was declined", body)
}
