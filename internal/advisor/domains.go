// ABOUTME: Domain-specific context models layered on the base Context.
// ABOUTME: Each tracks structured knowledge for one advisory domain.

package advisor

// copyStrings returns a copy of a string slice, nil for empty input.
func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// copyStringMap returns a copy of a string map, nil for empty input.
func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// appendUnique appends s to list if not already present; reports whether it was added.
func appendUnique(list []string, s string) ([]string, bool) {
	if s == "" {
		return list, false
	}
	for _, existing := range list {
		if existing == s {
			return list, false
		}
	}
	return append(list, s), true
}

// SecurityPostureContext models the security posture of a system under
// consultation: controls, policies, threats, and their mitigations.
type SecurityPostureContext struct {
	*Context
	controls              []string
	policies              []string
	standards             []string
	threats               map[string]string // threat -> risk
	mitigations           map[string]string // control -> detail
	authenticationMethods []string
	complianceNeeds       []string
	riskLevel             string
}

// SecurityPostureParams carries the inputs for a SecurityPostureContext.
type SecurityPostureParams struct {
	Base                  ContextParams
	Controls              []string
	Policies              []string
	Standards             []string
	Threats               map[string]string
	Mitigations           map[string]string
	AuthenticationMethods []string
	ComplianceNeeds       []string
	RiskLevel             string
}

// NewSecurityPostureContext builds a security posture context with copies of
// all collections.
func NewSecurityPostureContext(p SecurityPostureParams) *SecurityPostureContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainSecurity
	}
	if p.Base.Type == "" {
		p.Base.Type = "security-posture"
	}
	return &SecurityPostureContext{
		Context:               NewContext(p.Base),
		controls:              copyStrings(p.Controls),
		policies:              copyStrings(p.Policies),
		standards:             copyStrings(p.Standards),
		threats:               copyStringMap(p.Threats),
		mitigations:           copyStringMap(p.Mitigations),
		authenticationMethods: copyStrings(p.AuthenticationMethods),
		complianceNeeds:       copyStrings(p.ComplianceNeeds),
		riskLevel:             p.RiskLevel,
	}
}

func (c *SecurityPostureContext) Controls() []string  { return copyStrings(c.controls) }
func (c *SecurityPostureContext) Policies() []string  { return copyStrings(c.policies) }
func (c *SecurityPostureContext) Standards() []string { return copyStrings(c.standards) }
func (c *SecurityPostureContext) Threats() map[string]string {
	return copyStringMap(c.threats)
}
func (c *SecurityPostureContext) Mitigations() map[string]string {
	return copyStringMap(c.mitigations)
}
func (c *SecurityPostureContext) AuthenticationMethods() []string {
	return copyStrings(c.authenticationMethods)
}
func (c *SecurityPostureContext) ComplianceNeeds() []string { return copyStrings(c.complianceNeeds) }
func (c *SecurityPostureContext) RiskLevel() string         { return c.riskLevel }

// AddControl records a security control, ignoring empties and duplicates.
func (c *SecurityPostureContext) AddControl(control string) {
	var added bool
	if c.controls, added = appendUnique(c.controls, control); added {
		c.touch()
	}
}

// AddThreat records a threat and its risk rating.
func (c *SecurityPostureContext) AddThreat(threat, risk string) {
	if threat == "" {
		return
	}
	if c.threats == nil {
		c.threats = make(map[string]string)
	}
	c.threats[threat] = risk
	c.touch()
}

// AddMitigation records a mitigation for a control.
func (c *SecurityPostureContext) AddMitigation(control, detail string) {
	if control == "" {
		return
	}
	if c.mitigations == nil {
		c.mitigations = make(map[string]string)
	}
	c.mitigations[control] = detail
	c.touch()
}

// UnmitigatedThreats returns threats that have no recorded mitigation.
func (c *SecurityPostureContext) UnmitigatedThreats() []string {
	var out []string
	for threat := range c.threats {
		if _, ok := c.mitigations[threat]; !ok {
			out = append(out, threat)
		}
	}
	return out
}

// CICDContext models a delivery pipeline: stages, tooling, environments,
// and the quality gates between them.
type CICDContext struct {
	*Context
	stages        []string
	tools         []string
	environments  []string
	qualityGates  map[string]string // stage -> gate
	deployTargets []string
}

// CICDParams carries the inputs for a CICDContext.
type CICDParams struct {
	Base          ContextParams
	Stages        []string
	Tools         []string
	Environments  []string
	QualityGates  map[string]string
	DeployTargets []string
}

// NewCICDContext builds a CI/CD context with copies of all collections.
func NewCICDContext(p CICDParams) *CICDContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainCICD
	}
	if p.Base.Type == "" {
		p.Base.Type = "cicd-pipeline"
	}
	return &CICDContext{
		Context:       NewContext(p.Base),
		stages:        copyStrings(p.Stages),
		tools:         copyStrings(p.Tools),
		environments:  copyStrings(p.Environments),
		qualityGates:  copyStringMap(p.QualityGates),
		deployTargets: copyStrings(p.DeployTargets),
	}
}

func (c *CICDContext) Stages() []string               { return copyStrings(c.stages) }
func (c *CICDContext) Tools() []string                { return copyStrings(c.tools) }
func (c *CICDContext) Environments() []string         { return copyStrings(c.environments) }
func (c *CICDContext) QualityGates() map[string]string { return copyStringMap(c.qualityGates) }
func (c *CICDContext) DeployTargets() []string        { return copyStrings(c.deployTargets) }

// AddStage appends a pipeline stage, ignoring empties and duplicates.
func (c *CICDContext) AddStage(stage string) {
	var added bool
	if c.stages, added = appendUnique(c.stages, stage); added {
		c.touch()
	}
}

// SetQualityGate records the gate guarding a stage.
func (c *CICDContext) SetQualityGate(stage, gate string) {
	if stage == "" {
		return
	}
	if c.qualityGates == nil {
		c.qualityGates = make(map[string]string)
	}
	c.qualityGates[stage] = gate
	c.touch()
}

// UngatedStages returns stages with no quality gate recorded.
func (c *CICDContext) UngatedStages() []string {
	var out []string
	for _, stage := range c.stages {
		if _, ok := c.qualityGates[stage]; !ok {
			out = append(out, stage)
		}
	}
	return out
}

// ConfigurationContext models configuration management: sources, profiles,
// and the secrets handling policy.
type ConfigurationContext struct {
	*Context
	sources       []string
	profiles      []string
	overrides     map[string]string
	secretsPolicy string
}

// ConfigurationParams carries the inputs for a ConfigurationContext.
type ConfigurationParams struct {
	Base          ContextParams
	Sources       []string
	Profiles      []string
	Overrides     map[string]string
	SecretsPolicy string
}

// NewConfigurationContext builds a configuration context.
func NewConfigurationContext(p ConfigurationParams) *ConfigurationContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainConfiguration
	}
	if p.Base.Type == "" {
		p.Base.Type = "configuration"
	}
	return &ConfigurationContext{
		Context:       NewContext(p.Base),
		sources:       copyStrings(p.Sources),
		profiles:      copyStrings(p.Profiles),
		overrides:     copyStringMap(p.Overrides),
		secretsPolicy: p.SecretsPolicy,
	}
}

func (c *ConfigurationContext) Sources() []string            { return copyStrings(c.sources) }
func (c *ConfigurationContext) Profiles() []string           { return copyStrings(c.profiles) }
func (c *ConfigurationContext) Overrides() map[string]string { return copyStringMap(c.overrides) }
func (c *ConfigurationContext) SecretsPolicy() string        { return c.secretsPolicy }

// AddSource records a configuration source.
func (c *ConfigurationContext) AddSource(source string) {
	var added bool
	if c.sources, added = appendUnique(c.sources, source); added {
		c.touch()
	}
}

// ResilienceContext models fault-tolerance posture: applied patterns,
// known failure scenarios, and timeout/threshold settings.
type ResilienceContext struct {
	*Context
	patterns         []string
	failureScenarios []string
	timeouts         map[string]string // operation -> timeout
	circuitThreshold string
}

// ResilienceParams carries the inputs for a ResilienceContext.
type ResilienceParams struct {
	Base             ContextParams
	Patterns         []string
	FailureScenarios []string
	Timeouts         map[string]string
	CircuitThreshold string
}

// NewResilienceContext builds a resilience context.
func NewResilienceContext(p ResilienceParams) *ResilienceContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainResilience
	}
	if p.Base.Type == "" {
		p.Base.Type = "resilience"
	}
	return &ResilienceContext{
		Context:          NewContext(p.Base),
		patterns:         copyStrings(p.Patterns),
		failureScenarios: copyStrings(p.FailureScenarios),
		timeouts:         copyStringMap(p.Timeouts),
		circuitThreshold: p.CircuitThreshold,
	}
}

func (c *ResilienceContext) Patterns() []string           { return copyStrings(c.patterns) }
func (c *ResilienceContext) FailureScenarios() []string   { return copyStrings(c.failureScenarios) }
func (c *ResilienceContext) Timeouts() map[string]string  { return copyStringMap(c.timeouts) }
func (c *ResilienceContext) CircuitThreshold() string     { return c.circuitThreshold }

// AddPattern records a resilience pattern in use.
func (c *ResilienceContext) AddPattern(pattern string) {
	var added bool
	if c.patterns, added = appendUnique(c.patterns, pattern); added {
		c.touch()
	}
}

// AddFailureScenario records a failure scenario to design against.
func (c *ResilienceContext) AddFailureScenario(scenario string) {
	var added bool
	if c.failureScenarios, added = appendUnique(c.failureScenarios, scenario); added {
		c.touch()
	}
}

// EventDrivenContext models event-driven architecture knowledge: brokers,
// topics, schemas, and delivery guarantees.
type EventDrivenContext struct {
	*Context
	brokers            []string
	topics             []string
	schemas            map[string]string // topic -> schema ref
	deliveryGuarantee  string
}

// EventDrivenParams carries the inputs for an EventDrivenContext.
type EventDrivenParams struct {
	Base              ContextParams
	Brokers           []string
	Topics            []string
	Schemas           map[string]string
	DeliveryGuarantee string
}

// NewEventDrivenContext builds an event-driven context.
func NewEventDrivenContext(p EventDrivenParams) *EventDrivenContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainEventDriven
	}
	if p.Base.Type == "" {
		p.Base.Type = "event-driven"
	}
	return &EventDrivenContext{
		Context:           NewContext(p.Base),
		brokers:           copyStrings(p.Brokers),
		topics:            copyStrings(p.Topics),
		schemas:           copyStringMap(p.Schemas),
		deliveryGuarantee: p.DeliveryGuarantee,
	}
}

func (c *EventDrivenContext) Brokers() []string           { return copyStrings(c.brokers) }
func (c *EventDrivenContext) Topics() []string            { return copyStrings(c.topics) }
func (c *EventDrivenContext) Schemas() map[string]string  { return copyStringMap(c.schemas) }
func (c *EventDrivenContext) DeliveryGuarantee() string   { return c.deliveryGuarantee }

// AddTopic records a topic, ignoring empties and duplicates.
func (c *EventDrivenContext) AddTopic(topic string) {
	var added bool
	if c.topics, added = appendUnique(c.topics, topic); added {
		c.touch()
	}
}

// SetSchema records the schema reference for a topic.
func (c *EventDrivenContext) SetSchema(topic, ref string) {
	if topic == "" {
		return
	}
	if c.schemas == nil {
		c.schemas = make(map[string]string)
	}
	c.schemas[topic] = ref
	c.touch()
}

// UnversionedTopics returns topics that have no schema reference recorded.
func (c *EventDrivenContext) UnversionedTopics() []string {
	var out []string
	for _, topic := range c.topics {
		if _, ok := c.schemas[topic]; !ok {
			out = append(out, topic)
		}
	}
	return out
}

// ObservabilityContext models the observability posture: emitted signals,
// dashboards, and service level objectives.
type ObservabilityContext struct {
	*Context
	signals    []string
	dashboards []string
	slos       map[string]string // objective -> target
}

// ObservabilityParams carries the inputs for an ObservabilityContext.
type ObservabilityParams struct {
	Base       ContextParams
	Signals    []string
	Dashboards []string
	SLOs       map[string]string
}

// NewObservabilityContext builds an observability context.
func NewObservabilityContext(p ObservabilityParams) *ObservabilityContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainObservability
	}
	if p.Base.Type == "" {
		p.Base.Type = "observability"
	}
	return &ObservabilityContext{
		Context:    NewContext(p.Base),
		signals:    copyStrings(p.Signals),
		dashboards: copyStrings(p.Dashboards),
		slos:       copyStringMap(p.SLOs),
	}
}

func (c *ObservabilityContext) Signals() []string        { return copyStrings(c.signals) }
func (c *ObservabilityContext) Dashboards() []string     { return copyStrings(c.dashboards) }
func (c *ObservabilityContext) SLOs() map[string]string  { return copyStringMap(c.slos) }

// AddSignal records an emitted signal type.
func (c *ObservabilityContext) AddSignal(signal string) {
	var added bool
	if c.signals, added = appendUnique(c.signals, signal); added {
		c.touch()
	}
}

// TestingContext models testing posture: levels in place, frameworks in use,
// and coverage targets per component.
type TestingContext struct {
	*Context
	levels          []string
	frameworks      []string
	coverageTargets map[string]string // component -> target
}

// TestingParams carries the inputs for a TestingContext.
type TestingParams struct {
	Base            ContextParams
	Levels          []string
	Frameworks      []string
	CoverageTargets map[string]string
}

// NewTestingContext builds a testing context.
func NewTestingContext(p TestingParams) *TestingContext {
	if p.Base.Domain == "" {
		p.Base.Domain = DomainTesting
	}
	if p.Base.Type == "" {
		p.Base.Type = "testing"
	}
	return &TestingContext{
		Context:         NewContext(p.Base),
		levels:          copyStrings(p.Levels),
		frameworks:      copyStrings(p.Frameworks),
		coverageTargets: copyStringMap(p.CoverageTargets),
	}
}

func (c *TestingContext) Levels() []string                    { return copyStrings(c.levels) }
func (c *TestingContext) Frameworks() []string                { return copyStrings(c.frameworks) }
func (c *TestingContext) CoverageTargets() map[string]string  { return copyStringMap(c.coverageTargets) }

// AddLevel records a testing level in place.
func (c *TestingContext) AddLevel(level string) {
	var added bool
	if c.levels, added = appendUnique(c.levels, level); added {
		c.touch()
	}
}
