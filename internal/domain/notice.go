package domain

// NoticeKind names an outbound notification.
type NoticeKind string

const (
	NoticeTenantCreated     NoticeKind = "tenant.created"
	NoticeTenantActivated   NoticeKind = "tenant.activated"
	NoticeTenantDeactivated NoticeKind = "tenant.deactivated"
	NoticeMemberAdded       NoticeKind = "member.added"
)

// NoticeForEvent maps a lifecycle event to the notice it produces.
func NoticeForEvent(event Event) NoticeKind {
	if event == EventDeactivate {
		return NoticeTenantDeactivated
	}
	return NoticeTenantActivated
}

// Notice is a snapshot handed to the email collaborator.
type Notice struct {
	Kind       NoticeKind
	Tenant     Tenant
	Recipients []string
	Role       Role
}
