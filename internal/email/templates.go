package email

import "fmt"

// BuildWaitingListBody renders the waiting-list confirmation email.
func BuildWaitingListBody(eventName string, position int) string {
	return fmt.Sprintf(`<html>
<body>
  <p>Thanks for signing up for <strong>%s</strong>.</p>
  <p>The event is currently full, so you are number %d on the waiting list.
  We will let you know as soon as a spot opens up.</p>
</body>
</html>`, eventName, position)
}

// BuildSpotConfirmedBody renders the promotion email.
func BuildSpotConfirmedBody(eventName string) string {
	return fmt.Sprintf(`<html>
<body>
  <p>Good news! A spot opened up for <strong>%s</strong> and it is yours.</p>
  <p>Your registration is now confirmed. See you there!</p>
</body>
</html>`, eventName)
}
