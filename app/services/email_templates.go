package services

import (
	"fmt"
	"html"
)

func BuildVerificationEmailBody(username, link string, expiryHours int) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Confirm your email</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .button { display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <h2>Welcome, %s!</h2>
                <p>Confirm your email address to activate your BigCorp account.</p>
                <p><a class="button" href="%s">Confirm email</a></p>
                <p>The link expires in %d hours. If you did not sign up, ignore this email.</p>
                <div class="footer">
                    <p>&copy; BigCorp Shop</p>
                </div>
            </div>
        </body>
        </html>
    `, html.EscapeString(username), html.EscapeString(link), expiryHours)
}
