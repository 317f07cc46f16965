package extract

import "strings"

const testDate = "Tue, 05 Mar 2024 12:00:00 +0000"

// buildMessage wraps html in a multipart/alternative message with a
// plain-text sibling ahead of it.
func buildMessage(html string) []byte {
	var b strings.Builder
	b.WriteString("From: BestBuyInfo <BestBuyInfo@emailinfo.bestbuy.com>\r\n")
	b.WriteString("To: Jane Doe <jane@example.com>\r\n")
	b.WriteString("Date: " + testDate + "\r\n")
	b.WriteString("Subject: Thanks for your order\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"b1\"\r\n\r\n")
	b.WriteString("--b1\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nplain text body\r\n")
	b.WriteString("--b1\r\nContent-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n--b1--\r\n")
	return []byte(b.String())
}

const confirmationHTML = `<html><body><table>
<tr><td><span>Order number:</span> <span>BBY01-806712345678</span></td></tr>
<tr>
  <td style="padding:0;width:60%;max-width:359px;">
    <a style="text-decoration: none;" href="https://example.com/1">Xbox Series X</a>
    <span style="color:#000;font-weight: 700;font-size: 14px;line-height: 18px;">$499.99</span>
  </td>
  <td><table><tr><td>Qty:</td><td> 1 </td></tr></table></td>
</tr>
<tr>
  <td style="width:60%;max-width:359px;">
    <a style="text-decoration: none;" href="https://example.com/2">Wireless Controller</a>
    <span style="font-weight: 700;font-size: 14px;line-height: 18px;">$59.99</span>
  </td>
  <td><table><tr><td>Qty:</td><td>2</td></tr></table></td>
</tr>
<tr>
  <td style="width:60%;max-width:359px;">
    <a style="text-decoration: none;" href="https://example.com/3">Free Gift</a>
  </td>
</tr>
<tr><td align="right" style="padding-top:12px; padding-left:0;padding-right:0; padding-bottom:0; color:#000000;"> $619.97 </td></tr>
</table></body></html>`

const cancellationHTML = `<html><body>
<span style="font: bold 23px Arial; color: #1d252c;">Order #BBY01-806712345678</span>
<p>Your order has been canceled.</p>
</body></html>`

const cancellationAltHTML = `<html><body><table><tr>
<td style="padding-bottom:12px;">Order number: <span style="font-weight: 700; font-size: 14px;">BBY01-555000111</span></td>
</tr></table></body></html>`

const shipmentHTML = `<html><body>
<span style="font: bold 23px Arial; color: #1d252c;">Order #BBY01-806712345678</span>
<span style="font: bold 14px Arial">Tracking #: <a href="https://track.example.com">1Z999AA10123456784</a></span>
<table><tr>
<td style="padding-bottom:12px;">Tracking Number: <span style="font-weight: 700; font-size: 14px">9400111899223197428490</span></td>
</tr></table>
</body></html>`

const xboxHTML = `<html><body>
<p>Thanks for your purchase! Order # BBY01-806712345678</p>
<p><strong>Code: ABCDE-FGHIJ-12345</strong></p>
</body></html>`
