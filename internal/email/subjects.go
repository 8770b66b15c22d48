package email

const subjectQuoteSentFmt = "Your quote %s from Ink Stitch Press"
