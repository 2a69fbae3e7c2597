package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
	"github.com/samirrijal/accessroute/internal/core/usecases"
)

// optionalString returns the string argument name or "".
func optionalString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	optionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteOption",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"kind":                &graphql.Field{Type: graphql.String},
			"duration_seconds":    &graphql.Field{Type: graphql.Int},
			"distance_meters":     &graphql.Field{Type: graphql.Float},
			"accessibility_score": &graphql.Field{Type: graphql.Int},
			"features":            &graphql.Field{Type: graphql.NewList(graphql.String)},
			"warnings":            &graphql.Field{Type: graphql.NewList(graphql.String)},
			"estimated":           &graphql.Field{Type: graphql.Boolean},
		},
	})

	stepType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteStep",
		Fields: graphql.Fields{
			"sequence_index":      &graphql.Field{Type: graphql.Int},
			"instruction":         &graphql.Field{Type: graphql.String},
			"distance_meters":     &graphql.Field{Type: graphql.Float},
			"maneuver_kind":       &graphql.Field{Type: graphql.String},
			"accessibility":       &graphql.Field{Type: graphql.String},
			"accessibility_score": &graphql.Field{Type: graphql.Int},
		},
	})

	optionStepsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OptionSteps",
		Fields: graphql.Fields{
			"kind":  &graphql.Field{Type: graphql.String},
			"steps": &graphql.Field{Type: graphql.NewList(stepType)},
		},
	})

	planType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RoutePlan",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"profile":     &graphql.Field{Type: graphql.String},
			"origin":      &graphql.Field{Type: coordinateType},
			"destination": &graphql.Field{Type: coordinateType},
			"options":     &graphql.Field{Type: graphql.NewList(optionType)},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
			"steps": &graphql.Field{
				Type: graphql.NewList(optionStepsType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					plan, ok := p.Source.(*domain.RoutePlan)
					if !ok {
						return nil, nil
					}
					// Map order is random; list the steps in option order.
					out := make([]map[string]interface{}, 0, len(plan.Options))
					for _, kind := range domain.RouteKinds {
						if steps, ok := plan.Steps[kind]; ok {
							out = append(out, map[string]interface{}{"kind": string(kind), "steps": steps})
						}
					}
					return out, nil
				},
			},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"name":                &graphql.Field{Type: graphql.String},
			"location":            &graphql.Field{Type: coordinateType},
			"category":            &graphql.Field{Type: graphql.String},
			"type":                &graphql.Field{Type: graphql.String},
			"wheelchair":          &graphql.Field{Type: graphql.String},
			"wheelchair_toilet":   &graphql.Field{Type: graphql.String},
			"website":             &graphql.Field{Type: graphql.String},
			"phone":               &graphql.Field{Type: graphql.String},
			"accessibility_score": &graphql.Field{Type: graphql.Int},
			"distance":            &graphql.Field{Type: graphql.Float},
		},
	})

	hazardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HazardReport",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: graphql.String},
			"issue":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"reported_at": &graphql.Field{Type: graphql.DateTime},
			"reported_by": &graphql.Field{Type: graphql.String},
			"upvotes":     &graphql.Field{Type: graphql.Int},
			"latitude":    &graphql.Field{Type: graphql.Float},
			"longitude":   &graphql.Field{Type: graphql.Float},
		},
	})

	forumPostType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ForumPost",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"title":     &graphql.Field{Type: graphql.String},
			"content":   &graphql.Field{Type: graphql.String},
			"author":    &graphql.Field{Type: graphql.String},
			"posted_at": &graphql.Field{Type: graphql.DateTime},
			"likes":     &graphql.Field{Type: graphql.Int},
			"replies":   &graphql.Field{Type: graphql.Int},
			"category":  &graphql.Field{Type: graphql.String},
		},
	})

	placeArgs := func(defaultRadius float64) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"lat":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"radius":     &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: defaultRadius},
			"wheelchair": &graphql.ArgumentConfig{Type: graphql.String},
		}
	}
	placeQuery := func(args map[string]interface{}) domain.POIQuery {
		return domain.POIQuery{
			Center:       domain.Coordinate{Lat: args["lat"].(float64), Lon: args["lon"].(float64)},
			RadiusMeters: args["radius"].(float64),
			Wheelchair:   domain.Wheelchair(optionalString(args, "wheelchair")),
		}
	}

	nearbyArgs := placeArgs(poi.DefaultPOIRadius)
	nearbyArgs["category"] = &graphql.ArgumentConfig{Type: graphql.String}
	nearbyArgs["search"] = &graphql.ArgumentConfig{Type: graphql.String}
	nearbyArgs["sortBy"] = &graphql.ArgumentConfig{Type: graphql.String}
	nearbyArgs["limit"] = &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"planRoute": &graphql.Field{
				Type:        planType,
				Description: "Plan accessible, fastest and scenic route options",
				Args: graphql.FieldConfigArgument{
					"originLat":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"originLon":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destinationLat":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destinationLon":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"avoidStairs":           &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"smoothSurfaceOnly":     &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"includeTransit":        &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"destinationWheelchair": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.Plan(p.Context, usecases.PlanRequest{
						Origin:      domain.Coordinate{Lat: p.Args["originLat"].(float64), Lon: p.Args["originLon"].(float64)},
						Destination: domain.Coordinate{Lat: p.Args["destinationLat"].(float64), Lon: p.Args["destinationLon"].(float64)},
						Preferences: domain.RoutePreferences{
							AvoidStairs:       p.Args["avoidStairs"].(bool),
							SmoothSurfaceOnly: p.Args["smoothSurfaceOnly"].(bool),
							IncludeTransit:    p.Args["includeTransit"].(bool),
						},
						DestinationWheelchair: domain.Wheelchair(optionalString(p.Args, "destinationWheelchair")),
					})
				},
			},
			"nearbyPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Places around a point with accessibility scores",
				Args:        nearbyArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.Nearby(p.Context, placeQuery(p.Args), domain.PlaceFilter{
						Category: optionalString(p.Args, "category"),
						Search:   optionalString(p.Args, "search"),
						SortBy:   domain.PlaceSort(optionalString(p.Args, "sortBy")),
						Limit:    p.Args["limit"].(int),
					})
				},
			},
			"accessibleToilets": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Wheelchair-accessible toilets around a point",
				Args:        placeArgs(poi.DefaultToiletRadius),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.AccessibleToilets(p.Context, placeQuery(p.Args))
				},
			},
			"hazards": &graphql.Field{
				Type:        graphql.NewList(hazardType),
				Description: "Community hazard reports, newest first",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Hazards.List(p.Context)
				},
			},
			"forumPosts": &graphql.Field{
				Type:        graphql.NewList(forumPostType),
				Description: "Community forum posts, newest first",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Forum.List(p.Context, domain.ForumCategory(optionalString(p.Args, "category")))
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"upvoteHazard": &graphql.Field{
				Type: hazardType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Hazards.Upvote(p.Context, p.Args["id"].(string))
				},
			},
			"likeForumPost": &graphql.Field{
				Type: forumPostType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Forum.Like(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		if result.HasErrors() {
			LoggerFromCtx(c.UserContext()).Debug("graphql errors", "errors", result.Errors)
		}

		return c.JSON(result)
	}
}
