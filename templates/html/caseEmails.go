package templates

import (
	"fmt"
	"html"
)

// wrap puts the rendered body fragment into the shared FindHope email shell.
func wrap(title, bodyHTML string) string {
	safeTitle := html.EscapeString(title)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f5f7; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #2563eb 0%%, #7c3aed 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>&copy; FindHope — community missing person alerts</p>
      <p>If you wish to unsubscribe from these alerts, please contact us.</p>
    </div>
  </div>
</body>
</html>`, safeTitle, safeTitle, bodyHTML)
}

// RenderSubscriberUpdate is the notice for an email subscribed to one case.
func RenderSubscriberUpdate(caseName, status, priority string) string {
	body := fmt.Sprintf(`<p>There has been an update on the missing person case you are following:</p>
      <p><strong>Case:</strong> %s</p>
      <p><strong>New Status:</strong> %s</p>
      <p><strong>Priority:</strong> %s</p>
      <p>Please check the platform for more details.</p>`,
		html.EscapeString(caseName), html.EscapeString(status), html.EscapeString(priority))
	return wrap("Case Update Alert", body)
}

// RenderAdminUpdate is the notice for admin users, and includes the case id.
func RenderAdminUpdate(caseID, caseName, status, priority string) string {
	body := fmt.Sprintf(`<p>A case has been updated in the system:</p>
      <p><strong>Case ID:</strong> %s</p>
      <p><strong>Case:</strong> %s</p>
      <p><strong>New Status:</strong> %s</p>
      <p><strong>Priority:</strong> %s</p>
      <p>Please review this case in the admin dashboard.</p>`,
		html.EscapeString(caseID), html.EscapeString(caseName),
		html.EscapeString(status), html.EscapeString(priority))
	return wrap("Admin Alert: Case Update", body)
}

// RenderVolunteerUpdate is the notice for active volunteers, and includes the
// last-seen location so they know where to look.
func RenderVolunteerUpdate(caseName, location, status, priority string) string {
	if location == "" {
		location = "Unknown"
	}
	body := fmt.Sprintf(`<p>A missing person case has been updated in your area:</p>
      <p><strong>Case:</strong> %s</p>
      <p><strong>Location:</strong> %s</p>
      <p><strong>Status:</strong> %s</p>
      <p><strong>Priority:</strong> %s</p>
      <p>Thank you for your service as a volunteer.</p>`,
		html.EscapeString(caseName), html.EscapeString(location),
		html.EscapeString(status), html.EscapeString(priority))
	return wrap("Volunteer Alert: Case Update", body)
}
