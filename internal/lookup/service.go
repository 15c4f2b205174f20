package lookup

import "context"

// Service runs the full utterance -> classification path.
type Service struct {
	normalizer *Normalizer
	resolver   *Resolver
}

func NewService(normalizer *Normalizer, resolver *Resolver) *Service {
	return &Service{normalizer: normalizer, resolver: resolver}
}

// Check parses utterance and resolves it. The returned query is the zero
// value when parsing failed.
func (s *Service) Check(ctx context.Context, utterance string) (ParsedQuery, Result, error) {
	q, err := s.normalizer.Parse(utterance)
	if err != nil {
		return ParsedQuery{}, Result{}, err
	}
	result, err := s.resolver.Resolve(ctx, q)
	return q, result, err
}
