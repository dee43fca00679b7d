// Package leadex embeds lead search and CSV export over an Elasticsearch
// lead index without running the HTTP service.
//
// Filters use the same flat vocabulary as the GET /leads query string:
//
//	client, _ := leadex.New(ctx,
//	    leadex.WithElasticsearch("http://localhost:9200"),
//	    leadex.WithIndex("leads", "leads_merged"),
//	)
//	defer client.Close(ctx)
//
//	page, _ := client.Search(ctx, leadex.Filters{
//	    "state_code":   "TX,CA",
//	    "company_name": "acme",
//	    "exact":        true,
//	}, leadex.Limit(50), leadex.SortBy("updated_at", "desc"))
//
//	job, _ := client.Export(ctx, leadex.Filters{"has_email": "Y"})
//	job, _ = client.WaitExport(ctx, job.ID, time.Second)
//	fmt.Println(job.Filepath)
package leadex
