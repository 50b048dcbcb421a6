// Package docshape supplies the value-shape descriptions for each entity
// kind held in the normalized store: collection, request (operation),
// server, tag, security scheme, and the normalized OAuth2 flow.
//
// The shapes describe the subset of the OpenAPI document surface the
// reconciler supports editing. Fields outside this coverage are rejected by
// path resolution and the corresponding diff entries dropped, which is the
// intended behavior for partial schema coverage.
package docshape

import "github.com/erraggy/oassync/shape"

// Shapes are constructed once and shared; they are read-only by contract.
var (
	collectionShape     shape.Shape
	requestShape        shape.Shape
	serverShape         shape.Shape
	tagShape            shape.Shape
	securitySchemeShape shape.Shape
	oauth2FlowShape     shape.Shape
)

// Collection returns the shape of document-level collection fields
// (info, external docs, and other scalars outside the entity sections).
func Collection() shape.Shape { return collectionShape }

// Request returns the shape of one operation object as the request entity
// stores it. Method and path are entity identity, not body fields.
func Request() shape.Shape { return requestShape }

// Server returns the shape of one server object.
func Server() shape.Shape { return serverShape }

// Tag returns the shape of one tag object.
func Tag() shape.Shape { return tagShape }

// SecurityScheme returns the scheme union, discriminated by the "type"
// field: apiKey, http, oauth2, openIdConnect, or mutualTLS.
func SecurityScheme() shape.Shape { return securitySchemeShape }

// OAuth2Flow returns the normalized flow union, discriminated by the "type"
// field: implicit, password, clientCredentials, or authorizationCode. The
// normalized store keeps a single flow per scheme rather than the document's
// flows object.
func OAuth2Flow() shape.Shape { return oauth2FlowShape }

func init() {
	externalDocs := &shape.Object{Fields: map[string]shape.Field{
		"url":         {Shape: shape.Str},
		"description": {Shape: shape.Str, Optional: true},
	}}

	serverShape = &shape.Object{Fields: map[string]shape.Field{
		"url":         {Shape: shape.Str},
		"description": {Shape: shape.Str, Optional: true},
		"variables": {Shape: shape.Opt(&shape.Map{Value: &shape.Object{Fields: map[string]shape.Field{
			"default":     {Shape: shape.Str},
			"enum":        {Shape: shape.Opt(&shape.Array{Elem: shape.Str})},
			"description": {Shape: shape.Str, Optional: true},
		}}})},
	}}

	tagShape = &shape.Object{Fields: map[string]shape.Field{
		"name":         {Shape: shape.Str},
		"description":  {Shape: shape.Str, Optional: true},
		"externalDocs": {Shape: externalDocs, Optional: true},
	}}

	collectionShape = &shape.Object{Fields: map[string]shape.Field{
		"openapi": {Shape: shape.Str, Optional: true},
		"info": {Shape: &shape.Object{Fields: map[string]shape.Field{
			"title":          {Shape: shape.Str},
			"version":        {Shape: shape.Str},
			"summary":        {Shape: shape.Str, Optional: true},
			"description":    {Shape: shape.Str, Optional: true},
			"termsOfService": {Shape: shape.Str, Optional: true},
			"contact": {Shape: shape.Opt(&shape.Object{Fields: map[string]shape.Field{
				"name":  {Shape: shape.Str, Optional: true},
				"url":   {Shape: shape.Str, Optional: true},
				"email": {Shape: shape.Str, Optional: true},
			}})},
			"license": {Shape: shape.Opt(&shape.Object{Fields: map[string]shape.Field{
				"name":       {Shape: shape.Str},
				"identifier": {Shape: shape.Str, Optional: true},
				"url":        {Shape: shape.Str, Optional: true},
			}})},
		}}},
		"externalDocs":      {Shape: externalDocs, Optional: true},
		"jsonSchemaDialect": {Shape: shape.Str, Optional: true},
	}}

	parameter := &shape.Object{Fields: map[string]shape.Field{
		"name":            {Shape: shape.Str},
		"in":              {Shape: shape.Str},
		"description":     {Shape: shape.Str, Optional: true},
		"required":        {Shape: shape.Bool, Optional: true},
		"deprecated":      {Shape: shape.Bool, Optional: true},
		"allowEmptyValue": {Shape: shape.Bool, Optional: true},
		"style":           {Shape: shape.Str, Optional: true},
		"explode":         {Shape: shape.Bool, Optional: true},
		"schema":          {Shape: shape.AnyValue, Optional: true},
		"example":         {Shape: shape.AnyValue, Optional: true},
		"examples":        {Shape: shape.AnyValue, Optional: true},
	}}

	mediaType := &shape.Object{Fields: map[string]shape.Field{
		"schema":   {Shape: shape.AnyValue, Optional: true},
		"example":  {Shape: shape.AnyValue, Optional: true},
		"examples": {Shape: shape.AnyValue, Optional: true},
		"encoding": {Shape: shape.AnyValue, Optional: true},
	}}

	requestBody := &shape.Object{Fields: map[string]shape.Field{
		"description": {Shape: shape.Str, Optional: true},
		"required":    {Shape: shape.Bool, Optional: true},
		"content":     {Shape: &shape.Map{Value: mediaType}},
	}}

	response := &shape.Object{Fields: map[string]shape.Field{
		"description": {Shape: shape.Str},
		"headers":     {Shape: shape.AnyValue, Optional: true},
		"content":     {Shape: shape.Opt(&shape.Map{Value: mediaType})},
		"links":       {Shape: shape.AnyValue, Optional: true},
	}}

	// One security requirement: scheme name -> required scopes.
	// The empty object is the "optional, no scheme" marker and is valid.
	securityRequirement := &shape.Map{Value: &shape.Array{Elem: shape.Str}}

	requestShape = &shape.Object{Fields: map[string]shape.Field{
		"summary":      {Shape: shape.Str, Optional: true},
		"description":  {Shape: shape.Str, Optional: true},
		"operationId":  {Shape: shape.Str, Optional: true},
		"deprecated":   {Shape: shape.Bool, Optional: true},
		"tags":         {Shape: shape.Opt(&shape.Array{Elem: shape.Str})},
		"parameters":   {Shape: shape.Opt(&shape.Array{Elem: parameter})},
		"requestBody":  {Shape: requestBody, Optional: true},
		"responses":    {Shape: shape.Opt(&shape.Map{Value: response})},
		"security":     {Shape: shape.Opt(&shape.Array{Elem: securityRequirement})},
		"externalDocs": {Shape: externalDocs, Optional: true},
	}}

	scopes := &shape.Map{Value: shape.Str}

	oauth2FlowShape = &shape.Union{
		Discriminator: "type",
		Variants: []shape.Shape{
			&shape.Object{Fields: map[string]shape.Field{
				"type":             {Shape: &shape.Literal{Value: "implicit"}},
				"authorizationUrl": {Shape: shape.Str},
				"refreshUrl":       {Shape: shape.Str, Optional: true},
				"scopes":           {Shape: scopes, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":       {Shape: &shape.Literal{Value: "password"}},
				"tokenUrl":   {Shape: shape.Str},
				"refreshUrl": {Shape: shape.Str, Optional: true},
				"scopes":     {Shape: scopes, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":       {Shape: &shape.Literal{Value: "clientCredentials"}},
				"tokenUrl":   {Shape: shape.Str},
				"refreshUrl": {Shape: shape.Str, Optional: true},
				"scopes":     {Shape: scopes, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":             {Shape: &shape.Literal{Value: "authorizationCode"}},
				"authorizationUrl": {Shape: shape.Str},
				"tokenUrl":         {Shape: shape.Str},
				"refreshUrl":       {Shape: shape.Str, Optional: true},
				"scopes":           {Shape: scopes, Optional: true},
			}},
		},
	}

	// Document-form flow objects, keyed by flow kind under "flows".
	implicitFlow := &shape.Object{Fields: map[string]shape.Field{
		"authorizationUrl": {Shape: shape.Str},
		"refreshUrl":       {Shape: shape.Str, Optional: true},
		"scopes":           {Shape: scopes},
	}}
	passwordFlow := &shape.Object{Fields: map[string]shape.Field{
		"tokenUrl":   {Shape: shape.Str},
		"refreshUrl": {Shape: shape.Str, Optional: true},
		"scopes":     {Shape: scopes},
	}}
	authorizationCodeFlow := &shape.Object{Fields: map[string]shape.Field{
		"authorizationUrl": {Shape: shape.Str},
		"tokenUrl":         {Shape: shape.Str},
		"refreshUrl":       {Shape: shape.Str, Optional: true},
		"scopes":           {Shape: scopes},
	}}

	securitySchemeShape = &shape.Union{
		Discriminator: "type",
		Variants: []shape.Shape{
			&shape.Object{Fields: map[string]shape.Field{
				"type":        {Shape: &shape.Literal{Value: "apiKey"}},
				"name":        {Shape: shape.Str},
				"in":          {Shape: shape.Str},
				"description": {Shape: shape.Str, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":         {Shape: &shape.Literal{Value: "http"}},
				"scheme":       {Shape: shape.Str},
				"bearerFormat": {Shape: shape.Str, Optional: true},
				"description":  {Shape: shape.Str, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type": {Shape: &shape.Literal{Value: "oauth2"}},
				"flows": {Shape: &shape.Object{Fields: map[string]shape.Field{
					"implicit":          {Shape: implicitFlow, Optional: true},
					"password":          {Shape: passwordFlow, Optional: true},
					"clientCredentials": {Shape: passwordFlow, Optional: true},
					"authorizationCode": {Shape: authorizationCodeFlow, Optional: true},
				}}},
				"description": {Shape: shape.Str, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":             {Shape: &shape.Literal{Value: "openIdConnect"}},
				"openIdConnectUrl": {Shape: shape.Str},
				"description":      {Shape: shape.Str, Optional: true},
			}},
			&shape.Object{Fields: map[string]shape.Field{
				"type":        {Shape: &shape.Literal{Value: "mutualTLS"}},
				"description": {Shape: shape.Str, Optional: true},
			}},
		},
	}
}
