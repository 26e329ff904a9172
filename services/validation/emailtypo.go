package validation

import "strings"

// EmailSuggestion is a proposed correction for a mistyped email domain.
type EmailSuggestion struct {
	Address string `json:"address"`
	Domain  string `json:"domain"`
	Full    string `json:"full"`
}

var commonDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "icloud.com",
	"live.com", "msn.com", "aol.com", "me.com", "mail.com", "protonmail.com",
	"yahoo.com.sg", "hotmail.sg", "singnet.com.sg", "starhub.net.sg", "pacific.net.sg",
}

var secondLevelDomains = []string{
	"gmail", "yahoo", "hotmail", "outlook", "icloud", "live", "aol", "protonmail", "singnet", "starhub",
}

var topLevelDomains = []string{
	"com", "net", "org", "sg", "com.sg", "net.sg", "edu.sg", "gov.sg", "edu", "io", "co", "info",
}

// FindEmailTypo suggests a corrected address when the domain is within
// ceil(len/3) edits of a common domain. It returns nil when the domain is
// already known or nothing is close enough.
func FindEmailTypo(email string) *EmailSuggestion {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return nil
	}
	address := email[:at]
	domain := strings.ToLower(email[at+1:])

	for _, d := range commonDomains {
		if d == domain {
			return nil
		}
	}

	if match := closest(domain, commonDomains); match != "" && match != domain {
		return suggestion(address, match)
	}

	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return nil
	}
	sld, tld := domain[:dot], domain[dot+1:]

	if m := closest(sld, secondLevelDomains); m != "" {
		sld = m
	}
	if m := closest(tld, topLevelDomains); m != "" {
		tld = m
	}
	if candidate := sld + "." + tld; candidate != domain {
		return suggestion(address, candidate)
	}
	return nil
}

func suggestion(address, domain string) *EmailSuggestion {
	return &EmailSuggestion{Address: address, Domain: domain, Full: address + "@" + domain}
}

// closest returns the first dictionary entry with the minimal edit distance
// to s, provided that distance is within ceil(len(s)/3).
func closest(s string, dictionary []string) string {
	if s == "" {
		return ""
	}
	threshold := (len(s) + 2) / 3
	best, bestDist := "", threshold+1
	for _, candidate := range dictionary {
		if d := levenshtein(s, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
