package email

const (
	subjectLeadQualifiedFmt    = "Novo lead solar: %s (%s/%s)"
	subjectLeadNotQualifiedFmt = "Lead fora do perfil: %s (%s/%s)"
)
